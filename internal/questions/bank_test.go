package questions

import (
	"reflect"
	"slices"
	"testing"
)

func TestBankMatchSkills(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "short aliases need word boundaries",
			text: "Built services in Golang and JS, deployed with k8s",
			want: []string{"docker", "javascript"},
		},
		{
			name: "short alias inside a word is ignored",
			text: "Wrote jsonschema validators",
			want: []string{},
		},
		{
			name: "alias only skill is not matched by name",
			text: "Great communication",
			want: []string{},
		},
		{
			name: "long alias by substring",
			text: "Presented to every stakeholder; ran PostgreSQL",
			want: []string{"communication", "sql"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := DefaultBank().MatchSkills(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestBankDraft(t *testing.T) {
	bank := DefaultBank()
	draft := bank.Draft([]string{"python"}, NewRand(5))

	if draft.Questions[0] != bank.Intro {
		t.Fatalf("expected intro first, got %q", draft.Questions[0])
	}
	// two python questions padded with three generic ones
	if len(draft.Questions) != 6 {
		t.Fatalf("expected 6 questions, got %d", len(draft.Questions))
	}
	if len(draft.Technical) != 3 || len(draft.HR) != 2 {
		t.Fatalf("unexpected split: %d technical, %d hr", len(draft.Technical), len(draft.HR))
	}
	if !reflect.DeepEqual(slices.Concat(draft.Technical, draft.HR), draft.Questions[1:]) {
		t.Fatalf("split must cover every non-intro question")
	}

	python := 0
	for _, q := range draft.Questions {
		if slices.Contains(bank.Skills["python"], q) {
			python++
		}
	}
	if python != 2 {
		t.Fatalf("expected 2 python questions, got %d", python)
	}
}

func TestBankDraftCapsQuestions(t *testing.T) {
	bank := DefaultBank()
	draft := bank.Draft([]string{"python", "java", "react", "sql", "docker"}, NewRand(9))
	if len(draft.Questions) != 1+maxDraftQuestions {
		t.Fatalf("expected %d questions, got %d", 1+maxDraftQuestions, len(draft.Questions))
	}
}
