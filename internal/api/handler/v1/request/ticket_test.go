package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validSaveTicketRequest() SaveTicketRequest {
	return SaveTicketRequest{
		Number:  "012345",
		Region:  "nam",
		Station: "xstg",
		Label:   "Vé thứ bảy",
		Token:   "a-device-token-that-is-long-enough",
		BuyDate: "2024-05-10",
	}
}

func TestSaveTicketRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *SaveTicketRequest)
		wantErr bool
	}{
		{"valid", func(r *SaveTicketRequest) {}, false},
		{"valid canonical region", func(r *SaveTicketRequest) { r.Region = "north" }, false},
		{"leading zeros kept", func(r *SaveTicketRequest) { r.Number = "00012" }, false},
		{"missing number", func(r *SaveTicketRequest) { r.Number = "" }, true},
		{"number not digits", func(r *SaveTicketRequest) { r.Number = "12a45" }, true},
		{"number too long", func(r *SaveTicketRequest) { r.Number = "123456789012345678901" }, true},
		{"missing region", func(r *SaveTicketRequest) { r.Region = "" }, true},
		{"unknown region", func(r *SaveTicketRequest) { r.Region = "east" }, true},
		{"missing station", func(r *SaveTicketRequest) { r.Station = "" }, true},
		{"missing token", func(r *SaveTicketRequest) { r.Token = "" }, true},
		{"missing buy date", func(r *SaveTicketRequest) { r.BuyDate = "" }, true},
		{"buy date wrong format", func(r *SaveTicketRequest) { r.BuyDate = "10/05/2024" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSaveTicketRequest()
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
