package commands

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"admission-workers/internal/admission"
	"admission-workers/internal/extraction"
	"admission-workers/internal/models"
	"admission-workers/internal/registry"
	validatereceipt "admission-workers/internal/workers/documents/validate-receipt"
)

func newAnalyzeCommand() *cobra.Command {
	var model string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Extract a document candidate from a PDF or image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := os.Getenv("GEMINI_API_KEY")
			if key == "" {
				key = os.Getenv("GOOGLE_API_KEY")
			}
			extractor, err := extraction.NewGenAIExtractor(cmd.Context(), extraction.GenAIConfig{
				APIKey:  key,
				Model:   model,
				Timeout: timeout,
			})
			if err != nil {
				return err
			}
			return runAnalyze(cmd, extractor, args[0])
		},
	}

	cmd.Flags().StringVar(&model, "model", extraction.DefaultModel, "generative model name")
	cmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "extraction timeout")

	return cmd
}

func runAnalyze(cmd *cobra.Command, extractor extraction.Extractor, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}
	mediaType, err := extraction.NormalizeMediaType(mime.TypeByExtension(filepath.Ext(path)))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	candidate, err := extractor.Analyze(ctx, data, mediaType)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), candidate)
}

func newIdentityCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "identity FILE",
		Short: "Validate an identity document candidate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := readCandidate(args[0])
			if err != nil {
				return err
			}
			result := admission.Failed[models.IdentityCandidate](admission.KindNotRecognizedDocument,
				"The uploaded document is not an identity document.")
			if c.Category == models.CategoryIdentity && c.Identity != nil {
				result = admission.ValidateIdentity(*c.Identity)
			}
			return report(cmd, result, result.IsValid)
		},
	}
}

var defaultCertificateTypes = []models.CertificateTypeDescriptor{
	{Name: "LGCSE", LQFLevel: models.IntPtr(4)},
	{Name: "IGCSE", LQFLevel: models.IntPtr(4)},
	{Name: "Edexcel IGCSE", LQFLevel: models.IntPtr(4)},
}

func newAcademicCommand() *cobra.Command {
	var expectedName, registryPath string
	var acceptedTypes []string

	cmd := &cobra.Command{
		Use:   "academic FILE",
		Short: "Run the academic acceptance cascade on a candidate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := readCandidate(args[0])
			if err != nil {
				return err
			}

			reg := registry.NewStaticRegistry(defaultCertificateTypes...)
			if registryPath != "" {
				if reg, err = registry.LoadStaticRegistry(registryPath); err != nil {
					return err
				}
			}

			if c.Category != models.CategoryAcademic || c.Academic == nil {
				result := admission.AcademicResult{
					Result: admission.Failed[admission.NormalizedAcademic](admission.KindNotRecognizedDocument,
						"The uploaded document is not an academic certificate."),
					Outcome: admission.RejectedNotAcademic,
				}
				return report(cmd, result, false)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			result := admission.ValidateAcademic(ctx, *c.Academic, admission.AcademicContext{
				ExpectedName:  expectedName,
				AcceptedTypes: acceptedTypes,
				Registry:      reg,
			})
			return report(cmd, result, result.IsValid)
		},
	}

	cmd.Flags().StringVar(&expectedName, "expected-name", "", "applicant name to match against the certificate")
	cmd.Flags().StringVar(&registryPath, "registry", "", "JSON file of certificate type descriptors")
	cmd.Flags().StringSliceVar(&acceptedTypes, "accepted-types", []string{"LGCSE", "IGCSE", "Edexcel IGCSE"}, "accepted certificate types")

	return cmd
}

type receiptsReport struct {
	Aggregate admission.AggregateResult                    `json:"aggregate"`
	Receipts  []admission.Result[models.ReceiptCandidate] `json:"receipts"`
}

func newReceiptsCommand() *cobra.Command {
	var required float64
	var institution string

	cmd := &cobra.Command{
		Use:   "receipts FILE...",
		Short: "Validate receipts and check their total against a required amount",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if required <= 0 {
				return fmt.Errorf("--required must be positive")
			}
			policy, err := admission.NewReceiptPolicy(institution, nil, nil, "")
			if err != nil {
				return err
			}

			out := receiptsReport{Receipts: make([]admission.Result[models.ReceiptCandidate], 0, len(args))}
			for _, path := range args {
				c, err := readCandidate(path)
				if err != nil {
					return err
				}
				out.Receipts = append(out.Receipts, validatereceipt.ValidateCandidate(*c, policy))
			}
			out.Aggregate = admission.AggregateReceipts(out.Receipts, required)
			return report(cmd, out, out.Aggregate.IsValid)
		},
	}

	cmd.Flags().Float64Var(&required, "required", 0, "required total amount (required)")
	_ = cmd.MarkFlagRequired("required")
	cmd.Flags().StringVar(&institution, "institution", "", "institution name expected on receipts")

	return cmd
}
