package cli

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/csg33k/vessel-reports/internal/adapters/imaging"
	"github.com/csg33k/vessel-reports/internal/adapters/inspection"
	"github.com/csg33k/vessel-reports/internal/adapters/mailer"
	"github.com/csg33k/vessel-reports/internal/adapters/templatesource"
	"github.com/csg33k/vessel-reports/internal/config"
	"github.com/csg33k/vessel-reports/internal/domain"
	"github.com/csg33k/vessel-reports/internal/ports"
)

// InspectionInput is the YAML document read by "reportctl inspection".
// Image paths are relative to the input file.
type InspectionInput struct {
	VesselType    string       `yaml:"vessel_type"`
	Vessel        string       `yaml:"vessel"`
	IMO           string       `yaml:"imo"`
	CallSign      string       `yaml:"call_sign"`
	Place         string       `yaml:"place"`
	SurveyDate    string       `yaml:"survey_date"`
	Master        string       `yaml:"master"`
	Surveyor      string       `yaml:"surveyor"`
	BowPhoto      string       `yaml:"bow_photo"`
	Documentation []InputPhoto `yaml:"documentation"`
}

type InputPhoto struct {
	Image   string `yaml:"image"`
	Caption string `yaml:"caption"`
}

// LoadInspectionInput reads the YAML file at path and resolves it into a
// report. An empty survey_date means today. Every referenced image must
// decode.
func LoadInspectionInput(path string, today time.Time) (*domain.InspectionReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	var in InspectionInput
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if strings.TrimSpace(in.Vessel) == "" {
		return nil, fmt.Errorf("%s: vessel is required", path)
	}

	r := &domain.InspectionReport{
		VesselType: in.VesselType,
		Vessel:     in.Vessel,
		IMO:        in.IMO,
		CallSign:   in.CallSign,
		Place:      in.Place,
		SurveyDate: today,
		Master:     in.Master,
		Surveyor:   in.Surveyor,
	}
	if s := strings.TrimSpace(in.SurveyDate); s != "" {
		if r.SurveyDate, err = time.Parse(domain.StoredDate, s); err != nil {
			return nil, fmt.Errorf("%s: survey_date %q: want YYYY-MM-DD", path, s)
		}
	}

	dir := filepath.Dir(path)
	if r.BowPhoto, err = readImage(dir, in.BowPhoto); err != nil {
		return nil, err
	}
	for _, p := range in.Documentation {
		img, err := readImage(dir, p.Image)
		if err != nil {
			return nil, err
		}
		r.Documentation = append(r.Documentation, domain.DocumentationItem{Image: img, Caption: p.Caption})
	}
	return r, nil
}

func readImage(dir, name string) ([]byte, error) {
	if name == "" {
		return nil, nil
	}
	if !filepath.IsAbs(name) {
		name = filepath.Join(dir, name)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	if _, err := imaging.Inspect(data); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return data, nil
}

func newInspectionCommand(settings func() config.Config) *cobra.Command {
	var input, out, email string

	cmd := &cobra.Command{
		Use:   "inspection",
		Short: "Render an inspection report from a YAML description",
		Long: `Render an inspection report (.docx) from a YAML description of the survey.

Examples:
  reportctl inspection --input naziha.yaml
  reportctl inspection --input naziha.yaml --out report.docx --email ops@example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := settings()
			var mail ports.Mailer
			if email != "" {
				m := mailer.New(mailer.Config(cfg.SMTP))
				if !m.Enabled() {
					return fmt.Errorf("--email given but SMTP_HOST is not set")
				}
				mail = m
			}
			r, err := LoadInspectionInput(input, midnight(time.Now()))
			if err != nil {
				return err
			}
			r.Recipient = email
			return runInspection(cmd, inspectionRun{
				source:   templatesource.New(cfg.TemplateTimeout),
				template: stringFlag(cmd, "template", cfg.InspectionTemplate),
				report:   r,
				out:      out,
				mail:     mail,
			})
		},
	}
	cmd.Flags().String("template", "", "Template URL or path (default $TEMPLATE_INSPECTION_URL)")
	cmd.Flags().StringVarP(&input, "input", "i", "", "YAML report description")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: the report's standard file name)")
	cmd.Flags().StringVar(&email, "email", "", "Also e-mail the report to this address")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

type inspectionRun struct {
	source   ports.TemplateSource
	template string
	report   *domain.InspectionReport
	out      string
	mail     ports.Mailer
}

func runInspection(cmd *cobra.Command, run inspectionRun) error {
	ctx := cmd.Context()
	tmpl, err := run.source.Fetch(ctx, run.template)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := inspection.New().Generate(ctx, tmpl, run.report, &buf); err != nil {
		return err
	}

	name := inspection.FileName(run.report)
	out := run.out
	if out == "" {
		out = name
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
	slog.Debug("inspection report rendered", "vessel", run.report.Vessel, "bytes", buf.Len())

	if run.mail == nil {
		return nil
	}
	err = run.mail.Send(ctx, run.report.Recipient,
		inspection.EmailSubject(run.report), inspection.EmailBody(run.report),
		ports.Attachment{Name: name, ContentType: inspection.ContentType, Data: buf.Bytes()})
	if err != nil {
		return fmt.Errorf("report written but not sent: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Sent to %s\n", run.report.Recipient)
	return nil
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
