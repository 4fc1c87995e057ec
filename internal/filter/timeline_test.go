package filter

import (
	"reflect"
	"testing"
)

func TestTimeline(t *testing.T) {
	periods := Timeline()
	if len(periods) != 17 {
		t.Fatalf("expected 17 periods, got %d", len(periods))
	}
	if periods[0] != Precambrian || periods[16] != Holocene {
		t.Errorf("unexpected bounds: %v .. %v", periods[0], periods[16])
	}
	if Jurassic.String() != "Jurassic" {
		t.Errorf("expected Jurassic, got %s", Jurassic)
	}
	if int(Jurassic) != 8 {
		t.Errorf("expected Jurassic index 8, got %d", Jurassic)
	}
	if Period(17).String() != "Period(17)" {
		t.Errorf("unexpected string for invalid period: %s", Period(17))
	}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		name string
		want Period
		ok   bool
	}{
		{"Cretaceous", Cretaceous, true},
		{"cretaceous", Cretaceous, true},
		{"  Holocene ", Holocene, true},
		{"Precambrian", Precambrian, true},
		{"Quaternary", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePeriod(tt.name)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParsePeriod(%q) = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestLookupPeriod(t *testing.T) {
	tests := []struct {
		input   string
		want    Period
		wantErr bool
	}{
		{"11", Eocene, false},
		{"0", Precambrian, false},
		{"16", Holocene, false},
		{"Jurassic", Jurassic, false},
		{" permian ", Permian, false},
		{"17", 0, true},
		{"-1", 0, true},
		{"Quaternary", 0, true},
	}

	for _, tt := range tests {
		got, err := LookupPeriod(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("LookupPeriod(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("LookupPeriod(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestSpan(t *testing.T) {
	if got := Span(Triassic, Cretaceous); !reflect.DeepEqual(got, []Period{Triassic, Jurassic, Cretaceous}) {
		t.Errorf("unexpected span: %v", got)
	}
	if got := Span(Cretaceous, Triassic); !reflect.DeepEqual(got, []Period{Triassic, Jurassic, Cretaceous}) {
		t.Errorf("reversed span should match forward span, got %v", got)
	}
	if got := Span(Eocene, Eocene); !reflect.DeepEqual(got, []Period{Eocene}) {
		t.Errorf("unexpected single span: %v", got)
	}
	if got := Span(Period(-1), Eocene); got != nil {
		t.Errorf("expected nil for invalid bound, got %v", got)
	}
}

func TestParseAge(t *testing.T) {
	tests := []struct {
		age     string
		want    []Period
		wantErr bool
	}{
		{"Jurassic", []Period{Jurassic}, false},
		{"Eocene to Miocene", []Period{Eocene, Oligocene, Miocene}, false},
		{"Late Triassic to Early Jurassic", []Period{Triassic, Jurassic}, false},
		{"Upper Cretaceous", []Period{Cretaceous}, false},
		{"Pleistocene TO Holocene", []Period{Pleistocene, Holocene}, false},
		{"Miocene to Eocene", []Period{Eocene, Oligocene, Miocene}, false},
		{"", nil, true},
		{"Quaternary", nil, true},
		{"Jurassic to", nil, true},
		{"to Jurassic", nil, true},
		{"Very Late Jurassic", nil, true},
		{"Cambrian to Silurian to Devonian", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.age, func(t *testing.T) {
			got, err := ParseAge(tt.age)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAge(%q) error = %v, wantErr %v", tt.age, err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseAge(%q) = %v, want %v", tt.age, got, tt.want)
			}
		})
	}
}
