package units

import (
	"errors"
	"math"
	"testing"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		kind    Quantity
		from    Unit
		to      Unit
		want    float64
		wantErr bool
	}{
		{
			name:  "freezing point celsius to fahrenheit",
			value: 0, kind: Temperature, from: Metric, to: Imperial,
			want: 32,
		},
		{
			name:  "body temperature fahrenheit to celsius",
			value: 98.6, kind: Temperature, from: Imperial, to: Metric,
			want: 37,
		},
		{
			name:  "celsius to kelvin",
			value: 20, kind: Temperature, from: Metric, to: Standard,
			want: 293.15,
		},
		{
			name:  "kelvin to fahrenheit",
			value: 273.15, kind: Temperature, from: Standard, to: Imperial,
			want: 32,
		},
		{
			name:  "speed metric to imperial",
			value: 10, kind: Speed, from: Metric, to: Imperial,
			want: 22.369362920544024,
		},
		{
			name:  "speed standard equals metric",
			value: 5, kind: Speed, from: Standard, to: Metric,
			want: 5,
		},
		{
			name:  "same system is identity",
			value: 42.5, kind: Temperature, from: Imperial, to: Imperial,
			want: 42.5,
		},
		{
			name:  "unknown quantity kind",
			value: 1, kind: Quantity("pressure"), from: Metric, to: Imperial,
			wantErr: true,
		},
		{
			name:  "unknown unit system",
			value: 1, kind: Temperature, from: Unit("nautical"), to: Metric,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.value, tt.kind, tt.from, tt.to)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Convert() expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Convert() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConvertUnknownQuantityError(t *testing.T) {
	_, err := Convert(1, Quantity("humidity"), Metric, Imperial)
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("Convert() error = %v, want ErrInvalidQuantity", err)
	}
}

func TestConvertRoundTrip(t *testing.T) {
	values := []float64{-40, 0, 0.5, 21.7, 100, 451}
	for _, kind := range []Quantity{Temperature, Speed} {
		for _, v := range values {
			there, err := Convert(v, kind, Metric, Imperial)
			if err != nil {
				t.Fatalf("Convert(%v, %v) error = %v", v, kind, err)
			}
			back, err := Convert(there, kind, Imperial, Metric)
			if err != nil {
				t.Fatalf("Convert(%v, %v) error = %v", there, kind, err)
			}
			if math.Abs(back-v) > 1e-9 {
				t.Errorf("round trip %v of %v = %v, want %v", kind, v, back, v)
			}
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		kind  Quantity
		unit  Unit
		want  string
	}{
		{"metric temperature", 21.25, Temperature, Metric, "21.2 °C"},
		{"imperial temperature", 70.06, Temperature, Imperial, "70.1 °F"},
		{"standard temperature", 294.15, Temperature, Standard, "294.1 K"},
		{"metric speed", 3.6, Speed, Metric, "3.6 m/s"},
		{"imperial speed", 8.05, Speed, Imperial, "8.1 mi/hr"},
		{"standard speed", 3.6, Speed, Standard, "3.6 m/s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.value, tt.kind, tt.unit); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	if u, err := Parse(""); err != nil || u != Standard {
		t.Errorf("Parse(\"\") = %v, %v, want standard", u, err)
	}
	if u, err := Parse("imperial"); err != nil || u != Imperial {
		t.Errorf("Parse(imperial) = %v, %v", u, err)
	}
	if _, err := Parse("nautical"); err == nil {
		t.Error("Parse(nautical) expected error")
	}
}
