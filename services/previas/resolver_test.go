package previas

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParseCredits(t *testing.T) {
	cases := []struct {
		in   string
		want *float64
	}{
		{"OPTATIVA - 4", f(4)},
		{"12.5", f(12.5)},
		{"8", f(8)},
		{"sin creditos", nil},
		{"", nil},
	}
	for _, c := range cases {
		got := ParseCredits(c.in)
		if c.want == nil {
			require.Nil(t, got, "input %q", c.in)
			continue
		}
		require.NotNil(t, got, "input %q", c.in)
		require.Equal(t, *c.want, *got, "input %q", c.in)
	}
}

func f(v float64) *float64 { return &v }

func TestUnifySubjectsFirstRealNameWins(t *testing.T) {
	credits := []SubjectRecord{{Code: "1020", Name: "GAL 1", Credits: f(10)}}
	trees := []SubjectRecord{{Code: "1020", Name: "1020"}}
	pos := []SubjectRecord{{Code: "1020", Name: "GEOMETRIA Y ALGEBRA LINEAL 1"}}

	got := UnifySubjects(credits, trees, pos)
	want := []SubjectRecord{{Code: "1020", Name: "GAL 1", Credits: f(10)}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatal(diff)
	}
}

func TestUnifySubjectsUpgradesPlaceholder(t *testing.T) {
	trees := []SubjectRecord{{Code: "1030", Name: "1030"}}
	credits := []SubjectRecord{{Code: "1030", Name: "CALCULO 1", Credits: f(12)}}

	got := UnifySubjects(trees, credits)
	require.Len(t, got, 1)
	require.Equal(t, "CALCULO 1", got[0].Name)
	require.NotNil(t, got[0].Credits)
	require.Equal(t, 12.0, *got[0].Credits)
}

func TestUnifySubjectsFirstCreditsWin(t *testing.T) {
	a := []SubjectRecord{{Code: "1440", Name: "FISICA 1", Credits: f(10)}}
	b := []SubjectRecord{{Code: "1440", Name: "FISICA 1", Credits: f(99)}}

	got := UnifySubjects(a, b)
	require.Len(t, got, 1)
	require.Equal(t, 10.0, *got[0].Credits)
}

func TestUnifySubjectsCanonicalizesCodes(t *testing.T) {
	got := UnifySubjects([]SubjectRecord{
		{Code: "CENURLN - 1030", Name: "CALCULO 1"},
		{Code: "1030", Name: "CALCULO 1"},
	})
	require.Len(t, got, 1)
	require.Equal(t, "1030", got[0].Code)
}

func TestUnifySubjectsSortOrder(t *testing.T) {
	got := UnifySubjects([]SubjectRecord{
		{Code: "GAL1", Name: "GEOMETRIA"},
		{Code: "1030", Name: "CALCULO 1"},
		{Code: "ABC", Name: "TALLER"},
		{Code: "999", Name: "INTRO"},
	})
	codes := make([]string, 0, len(got))
	for _, rec := range got {
		codes = append(codes, rec.Code)
	}
	require.Equal(t, []string{"999", "1030", "ABC", "GAL1"}, codes)
}
