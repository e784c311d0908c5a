package ports

import (
	"context"
	"io"
	"time"

	"github.com/csg33k/vessel-reports/internal/domain"
)

// TripRepository persists RBD trips keyed by their string id.
type TripRepository interface {
	// SaveTrip inserts or replaces the trip stored under t.ID.
	SaveTrip(ctx context.Context, t *domain.Trip) error
	GetTrip(ctx context.Context, id string) (*domain.Trip, error)
	// ListTrips returns trips, most recently updated first.
	ListTrips(ctx context.Context) ([]domain.Trip, error)
	DeleteTrip(ctx context.Context, id string) error
}

// TemplateSource fetches template bytes by URL or local path.
type TemplateSource interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// Attachment is a file sent along with a message.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// Mailer sends a message with attachments.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string, attachments ...Attachment) error
	// Enabled reports whether outgoing mail is configured.
	Enabled() bool
}

// InspectionGenerator renders an inspection report from a .docx template.
type InspectionGenerator interface {
	Generate(ctx context.Context, template []byte, r *domain.InspectionReport, w io.Writer) error
}

// ExpenseGenerator fills the RBD workbook template for a trip. signedOn is
// the date printed on the signature line.
type ExpenseGenerator interface {
	Generate(ctx context.Context, template []byte, t *domain.Trip, signedOn time.Time, w io.Writer) error
}

// ExpenseSummary renders a printable summary of a trip.
type ExpenseSummary interface {
	GenerateTripSummary(ctx context.Context, t *domain.Trip, w io.Writer) error
}
