package roster_test

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/class-attendance/internal/roster"
)

func mustRead(t *testing.T, src string) *roster.Roster {
	t.Helper()
	r, err := roster.Read(strings.NewReader(src), "name")
	require.NoError(t, err)
	return r
}

func write(t *testing.T, r *roster.Roster) string {
	t.Helper()
	var b bytes.Buffer
	require.NoError(t, roster.Write(&b, r))
	return b.String()
}

func encode(t *testing.T, r *roster.Roster) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, roster.Write(&buf, r))
	return buf.String()
}

func TestMergeAddsColumnAndParticipant(t *testing.T) {
	r := mustRead(t, "name,2024-01-03\nA,1\n")

	got := roster.Merge(r, "2024-01-10", []string{"A", "C"}, roster.NewCollator("en"))

	assert.Equal(t, "name,2024-01-03,2024-01-10\nA,1,1\nC,0,1\n", encode(t, got))
	// The input roster is not modified.
	assert.Equal(t, "name,2024-01-03\nA,1\n", encode(t, r))
}

func TestMergeNewColumnMarksOthersAbsent(t *testing.T) {
	r := mustRead(t, "name,d1\nA,1\nB,1\n")
	got := roster.Merge(r, "d2", []string{"B"}, nil)
	assert.Equal(t, "name,d1,d2\nA,1,0\nB,1,1\n", encode(t, got))
}

func TestMergeExistingColumnIsUnion(t *testing.T) {
	r := mustRead(t, "name,d1\nA,1\nB,0\n")
	got := roster.Merge(r, "d1", []string{"B"}, nil)
	assert.Equal(t, "name,d1\nA,1\nB,1\n", encode(t, got))
}

func TestMergeOnEmptyRoster(t *testing.T) {
	got := roster.Merge(roster.New("Full Name"), "2024-01-10", []string{"Zoe", "Adam"}, nil)
	assert.Equal(t, "Full Name,2024-01-10\nAdam,1\nZoe,1\n", encode(t, got))
}

func TestMergeSortsOnlyWhenParticipantAdded(t *testing.T) {
	// Hand-edited order is kept as long as nobody new shows up.
	r := mustRead(t, "name,d1\nZoe,0\nAdam,1\n")
	got := roster.Merge(r, "d2", []string{"Zoe"}, nil)
	assert.Equal(t, []string{"Zoe", "Adam"}, names(got))

	got = roster.Merge(got, "d3", []string{"Maria"}, nil)
	assert.Equal(t, []string{"Adam", "Maria", "Zoe"}, names(got))
}

func TestMergeIsIdempotent(t *testing.T) {
	r := mustRead(t, "name,d1,d2\nB,1,0\nD,0,1\n")
	once := roster.Merge(r, "d2", []string{"A", "B", "C"}, nil)
	twice := roster.Merge(once, "d2", []string{"A", "B", "C"}, nil)
	assert.Equal(t, encode(t, once), encode(t, twice))

	once = roster.Merge(r, "d9", []string{"D"}, nil)
	twice = roster.Merge(once, "d9", []string{"D"}, nil)
	assert.Equal(t, encode(t, once), encode(t, twice))
}

func TestMergeIsMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	people := []string{"A", "B", "C", "D", "E"}
	columns := []string{"d1", "d2", "d3"}

	r := roster.New("name")
	for step := 0; step < 200; step++ {
		var present []string
		for _, p := range people {
			if rng.Intn(2) == 0 {
				present = append(present, p)
			}
		}
		next := roster.Merge(r, columns[rng.Intn(len(columns))], present, nil)

		for _, row := range r.Rows {
			after := next.Find(row.Name)
			require.NotNil(t, after)
			for k, col := range r.Columns() {
				nk := next.ColumnIndex(col)
				require.GreaterOrEqual(t, nk, 0)
				assert.GreaterOrEqual(t, after.Marks[nk], row.Marks[k], "%s/%s decreased", row.Name, col)
			}
		}
		for _, row := range next.Rows {
			assert.Len(t, row.Marks, len(next.Header)-1)
		}
		r = next
	}
}

func TestMergeOrderIndependent(t *testing.T) {
	merges := []struct {
		col    string
		people []string
	}{
		{"d1", []string{"A", "B"}},
		{"d2", []string{"B", "C"}},
		{"d1", []string{"C"}},
	}

	forward := roster.New("name")
	for _, m := range merges {
		forward = roster.Merge(forward, m.col, m.people, nil)
	}
	backward := roster.New("name")
	for i := len(merges) - 1; i >= 0; i-- {
		backward = roster.Merge(backward, merges[i].col, merges[i].people, nil)
	}

	for _, row := range forward.Rows {
		other := backward.Find(row.Name)
		require.NotNil(t, other)
		for k, col := range forward.Columns() {
			assert.Equal(t, row.Marks[k], other.Marks[backward.ColumnIndex(col)], "%s/%s", row.Name, col)
		}
	}
}

func TestMergeCollatesNames(t *testing.T) {
	got := roster.Merge(roster.New("name"), "d1", []string{"Dąb", "Ćwik", "Cichy", "Zieliński", "Łukasz", "Lis"}, roster.NewCollator("pl_PL.UTF-8"))
	assert.Equal(t, []string{"Cichy", "Ćwik", "Dąb", "Lis", "Łukasz", "Zieliński"}, names(got))
}

func TestReadFoldsDuplicateRows(t *testing.T) {
	r := mustRead(t, "name,d1,d2,d3\nA,1,0,0\nB,0,0,1\nA,0,1,0\n")
	assert.Equal(t, "name,d1,d2,d3\nA,1,1,0\nB,0,0,1\n", encode(t, r))
}

func TestReadNormalizesRowWidth(t *testing.T) {
	r := mustRead(t, "name,d1,d2\nA,1\nB,1,1,1\nC\nD,,1\n")
	assert.Equal(t, "name,d1,d2\nA,1,0\nB,1,1\nC,0,0\nD,0,1\n", encode(t, r))
}

func TestReadEmpty(t *testing.T) {
	r := mustRead(t, "")
	assert.Equal(t, []string{"name"}, r.Header)
	assert.Empty(t, r.Rows)
}

func TestReadCorrupt(t *testing.T) {
	for _, src := range []string{
		"name,d1\nA,yes\n",
		"name,d1\nA,2\n",
		"name,d1\n\"A,1\n",
	} {
		_, err := roster.Read(strings.NewReader(src), "name")
		assert.ErrorIs(t, err, roster.ErrCorrupt, src)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	r := roster.New("Full Name")
	r = roster.Merge(r, "2024-01-03", []string{"Kowalski, Jan", "O\"Brien"}, nil)
	r = roster.Merge(r, "2024-01-10 09:00", []string{"Anna"}, nil)

	back, err := roster.Read(strings.NewReader(encode(t, r)), "ignored")
	require.NoError(t, err)
	assert.Equal(t, r.Header, back.Header)
	require.Len(t, back.Rows, len(r.Rows))
	for _, row := range r.Rows {
		other := back.Find(row.Name)
		require.NotNil(t, other, row.Name)
		assert.Equal(t, row.Marks, other.Marks)
	}
}

func TestWritePadsShortRows(t *testing.T) {
	r := &roster.Roster{
		Header: []string{"name", "d1", "d2"},
		Rows: []roster.Row{
			{Name: "A", Marks: []int{1, 1}},
			{Name: "B", Marks: []int{1}},
			{Name: "C"},
		},
	}
	assert.Equal(t, "name,d1,d2\nA,1,1\nB,1,0\nC,0,0\n", write(t, r))
}

func TestNewCollatorFallsBack(t *testing.T) {
	for _, locale := range []string{"", "C", "POSIX", "not a locale!", "C.UTF-8"} {
		c := roster.NewCollator(locale)
		require.NotNil(t, c, locale)
		assert.Negative(t, c.CompareString("a", "b"), locale)
	}
}

func names(r *roster.Roster) []string {
	var out []string
	for _, row := range r.Rows {
		out = append(out, row.Name)
	}
	return out
}
