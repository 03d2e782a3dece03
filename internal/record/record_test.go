package record

import (
	"testing"

	"github.com/rcliao/mhr-assist/internal/model"
)

func TestDefault_EveryCategoryAnswered(t *testing.T) {
	s := Default()
	for _, c := range model.Categories {
		if s.Answer(c) == "" {
			t.Errorf("no answer for %s", c)
		}
	}
}

func TestDefault_Vaccinations(t *testing.T) {
	want := "The patient received a COVID-19 vaccine in 2021 and a typhoid booster in 2020."
	if got := Default().Answer(model.CategoryVaccinations); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParse_MissingCategory(t *testing.T) {
	_, err := Parse([]byte("vaccinations: yes\nmedications: none\n"))
	if err == nil {
		t.Fatal("expected error for incomplete record")
	}
}

func TestParse_UnknownCategory(t *testing.T) {
	data := `
vaccinations: a
medications: b
allergies: c
imaging: d
pathology: e
history: f
dental: g
`
	if _, err := Parse([]byte(data)); err == nil {
		t.Fatal("expected error for unknown category")
	}
}
