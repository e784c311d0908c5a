package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrTripNotFound is returned when no trip is stored under an id.
	ErrTripNotFound = errors.New("trip not found")
	// ErrTripIDRequired is returned when saving a trip without an id.
	ErrTripIDRequired = errors.New("trip id is required")
	// ErrInvalidTemplate marks a template that cannot be opened as the
	// expected document type.
	ErrInvalidTemplate = errors.New("invalid template")
)

// Date layouts used on the generated documents.
const (
	LongDate   = "02 January 2006" // placedate, RBD signature line
	ShortDate  = "02-01-2006"      // RBD start/end cells
	FileDate   = "2006.01.02"      // file names
	StoredDate = "2006-01-02"      // persistence and form values
)

// DocumentationItem is one slot of the documentation gallery.
type DocumentationItem struct {
	Image   []byte
	Caption string
}

// IsEmpty reports whether the item carries neither an image nor a caption.
func (i DocumentationItem) IsEmpty() bool {
	return len(i.Image) == 0 && strings.TrimSpace(i.Caption) == ""
}

// InspectionReport holds the fields of a vessel inspection report.
type InspectionReport struct {
	VesselType string
	Vessel     string
	IMO        string
	CallSign   string
	Place      string
	SurveyDate time.Time
	Master     string
	Surveyor   string

	// BowPhoto goes into the template cell holding the bow photo token.
	BowPhoto      []byte
	Documentation []DocumentationItem

	// Recipient is the optional e-mail address the report is sent to.
	Recipient string
}

// PlaceDate renders "<place>, 02 January 2006".
func (r *InspectionReport) PlaceDate() string {
	return fmt.Sprintf("%s, %s", r.Place, r.SurveyDate.Format(LongDate))
}

// ExpenseAmounts are the travel cost lines as typed by the user. They stay
// strings: a line may hold a note instead of a number.
type ExpenseAmounts struct {
	Hotel            string `json:"hotel_cost"`
	Deposit          string `json:"deposit"`
	Plane            string `json:"plane_cost"`
	Miscellaneous    string `json:"miscellaneous"`
	AirportTax       string `json:"airport_tax"`
	Ship             string `json:"ship_cost"`
	Train            string `json:"train_cost"`
	Bus              string `json:"bus_cost"`
	Fuel             string `json:"fuel_cost"`
	Toll             string `json:"toll_cost"`
	Taxi             string `json:"taxi_cost"`
	LocalTransport   string `json:"local_transport"`
	BoatJetty        string `json:"boat_jetty"`
	WeekendTransport string `json:"weekend_transport"`
}

// ExpenseLine pairs an amount with its form field, label and workbook cell.
type ExpenseLine struct {
	Field  string
	Label  string
	Cell   string
	Amount string
}

// Lines returns the cost lines in workbook order.
func (a ExpenseAmounts) Lines() []ExpenseLine {
	return []ExpenseLine{
		{"hotel_cost", "Akomodasi Hotel", "N20", a.Hotel},
		{"deposit", "Deposit Hotel", "N22", a.Deposit},
		{"plane_cost", "Pesawat", "N24", a.Plane},
		{"miscellaneous", "Miscellaneous Document Cargo", "N26", a.Miscellaneous},
		{"airport_tax", "Airport Tax", "N28", a.AirportTax},
		{"ship_cost", "Kapal Laut", "N30", a.Ship},
		{"train_cost", "Kereta Api", "N33", a.Train},
		{"bus_cost", "Bis", "N36", a.Bus},
		{"fuel_cost", "Kendaraan Dinas (BBM)", "N39", a.Fuel},
		{"toll_cost", "Nota Toll", "N40", a.Toll},
		{"taxi_cost", "Taksi / Bis", "N42", a.Taxi},
		{"local_transport", "Transportasi di tempat dinas", "N46", a.LocalTransport},
		{"boat_jetty", "Boat Jetty", "N47", a.BoatJetty},
		{"weekend_transport", "Uang Transport di tanggal Merah", "N52", a.WeekendTransport},
	}
}

// Set assigns the amount of the line identified by field. Unknown fields
// are ignored and reported as false.
func (a *ExpenseAmounts) Set(field, value string) bool {
	targets := map[string]*string{
		"hotel_cost":        &a.Hotel,
		"deposit":           &a.Deposit,
		"plane_cost":        &a.Plane,
		"miscellaneous":     &a.Miscellaneous,
		"airport_tax":       &a.AirportTax,
		"ship_cost":         &a.Ship,
		"train_cost":        &a.Train,
		"bus_cost":          &a.Bus,
		"fuel_cost":         &a.Fuel,
		"toll_cost":         &a.Toll,
		"taxi_cost":         &a.Taxi,
		"local_transport":   &a.LocalTransport,
		"boat_jetty":        &a.BoatJetty,
		"weekend_transport": &a.WeekendTransport,
	}
	p, ok := targets[field]
	if ok {
		*p = value
	}
	return ok
}

// DefaultExpenseAmounts has every line set to "0", as on a fresh form.
func DefaultExpenseAmounts() ExpenseAmounts {
	var a ExpenseAmounts
	for _, l := range a.Lines() {
		a.Set(l.Field, "0")
	}
	return a
}

// Trip is one business trip ("perjalanan dinas") with its expenses.
type Trip struct {
	ID         string
	StartDate  time.Time
	EndDate    time.Time
	Purpose    string
	VesselCode string
	Costs      ExpenseAmounts
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Total sums the lines whose amount parses as a number.
func (t Trip) Total() float64 {
	var sum float64
	for _, l := range t.Costs.Lines() {
		if v, ok := ParseAmount(l.Amount); ok {
			sum += v
		}
	}
	return sum
}
