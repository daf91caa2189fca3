package handlers

import (
	"testing"

	"github.com/bootcampcrew/admissions_service/internal/dto"
	"github.com/bootcampcrew/admissions_service/internal/services"
)

func TestDrawParamsMerge(t *testing.T) {
	intPtr := func(v int) *int { return &v }
	floatPtr := func(v float64) *float64 { return &v }

	defaults := services.DefaultDrawParams

	tests := []struct {
		name string
		req  dto.DrawRequest
		want services.DrawParams
	}{
		{
			"empty request keeps every default",
			dto.DrawRequest{},
			defaults,
		},
		{
			"seats override keeps the quota defaults",
			dto.DrawRequest{NumberOfSeats: intPtr(10)},
			services.DrawParams{
				NumberOfSeats:   10,
				MinFemaleQuota:  defaults.MinFemaleQuota,
				MaxCompanyQuota: defaults.MaxCompanyQuota,
			},
		},
		{
			"explicit zero company quota is a hard ban, not unset",
			dto.DrawRequest{MaxCompanyQuota: floatPtr(0)},
			services.DrawParams{
				NumberOfSeats:   defaults.NumberOfSeats,
				MinFemaleQuota:  defaults.MinFemaleQuota,
				MaxCompanyQuota: 0,
			},
		},
		{
			"explicit zero female quota is a hard off switch",
			dto.DrawRequest{MinFemaleQuota: floatPtr(0)},
			services.DrawParams{
				NumberOfSeats:   defaults.NumberOfSeats,
				MinFemaleQuota:  0,
				MaxCompanyQuota: defaults.MaxCompanyQuota,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := drawParams(tt.req); got != tt.want {
				t.Errorf("drawParams() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
