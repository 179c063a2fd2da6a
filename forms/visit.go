package forms

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

type VisitData struct {
	DateVisited time.Time
	UserRating  float64
	AmountSpent float64
	Notes       string
}

type visitInput struct {
	DateVisited *time.Time `json:"date_visited" validate:"required"`
	UserRating  *float64   `json:"user_rating" validate:"required,gte=0,lte=5"`
	AmountSpent *float64   `json:"amount_spent" validate:"omitempty,gte=0"`
}

type VisitEntry struct {
	DateVisited string            `json:"date_visited"`
	UserRating  string            `json:"user_rating"`
	AmountSpent string            `json:"amount_spent"`
	Notes       string            `json:"notes"`
	Errors      map[string]string `json:"errors,omitempty"`

	data VisitData
}

func (v *VisitEntry) Data() VisitData {
	return v.data
}

func (v *VisitEntry) validate() bool {
	v.Errors = map[string]string{}
	input := visitInput{}
	if raw := strings.TrimSpace(v.DateVisited); raw != "" {
		if date, err := time.Parse(dateLayout, raw); err == nil {
			input.DateVisited = &date
		} else {
			v.Errors["date_visited"] = "Enter a valid date."
		}
	}
	var ok bool
	if input.UserRating, ok = parseFloat(v.UserRating); !ok {
		v.Errors["user_rating"] = "Enter a number."
	}
	if input.AmountSpent, ok = parseFloat(v.AmountSpent); !ok {
		v.Errors["amount_spent"] = "Enter a number."
	}
	fieldErrors(input, v.Errors)
	if len(v.Errors) > 0 {
		return false
	}
	v.data = VisitData{
		DateVisited: *input.DateVisited,
		UserRating:  *input.UserRating,
		Notes:       v.Notes,
	}
	if input.AmountSpent != nil {
		v.data.AmountSpent = *input.AmountSpent
	}
	return true
}
