package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type SaveTicketRequest struct {
	Number  string `json:"number"`
	Region  string `json:"region"`
	Station string `json:"station"`
	Label   string `json:"label"`
	Token   string `json:"token"`
	BuyDate string `json:"buy_date"`
	// WaitForResult asks for an inline verdict when the draw already
	// happened; otherwise the check is always deferred.
	WaitForResult bool `json:"wait_for_result"`
}

func (req *SaveTicketRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Number, validation.Required, is.Digit, validation.Length(2, 20)),
		validation.Field(&req.Region, validation.Required,
			validation.In("north", "central", "south", "bac", "trung", "nam")),
		validation.Field(&req.Station, validation.Required, validation.Length(1, 50)),
		validation.Field(&req.Label, validation.Length(0, 100)),
		validation.Field(&req.Token, validation.Required),
		validation.Field(&req.BuyDate, validation.Required, validation.Date("2006-01-02")),
	)
}
