package questions

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "number,prompt,choice1,choice2,choice3,choice4,correctAnswer,type,imageRef\n"

func TestLoad_Valid(t *testing.T) {
	data := header +
		"3,Third?,a,b,c,d,1,text,\n" +
		"1,First?,a,b,c,d,2,text,\n" +
		"2,,a,b,c,d,4,IMAGE ,img/q2.png\n"

	dataset, err := Load(strings.NewReader(data), "round1.csv")
	require.NoError(t, err)

	assert.Equal(t, "round1.csv", dataset.Name)
	assert.Equal(t, []int{1, 2, 3}, dataset.Numbers())

	row, ok := dataset.Row(2)
	require.True(t, ok)
	assert.Equal(t, TypeImage, row.Type)
	assert.Equal(t, "img/q2.png", row.ImageRef)
	assert.True(t, row.IsImage())

	answer, ok := row.Answer()
	assert.True(t, ok)
	assert.Equal(t, 4, answer)

	low, high := dataset.Bounds()
	assert.Equal(t, 1, low)
	assert.Equal(t, 3, high)
}

func TestLoad_BOMAndKoreanHeader(t *testing.T) {
	data := "\ufeff번호,문제,보기1,보기2,보기3,보기4,정답,타입,이미지\n" +
		"7,전압은?,1V,2V,3V,4V,3.0,text,\n"

	dataset, err := Load(strings.NewReader(data), "cbt.csv")
	require.NoError(t, err)
	require.Equal(t, 1, dataset.Len())

	row := dataset.Rows()[0]
	assert.Equal(t, 7, row.Number)
	assert.Equal(t, "전압은?", row.Prompt)
	assert.Equal(t, "3V", row.Choice(3))

	answer, ok := row.Answer()
	assert.True(t, ok)
	assert.Equal(t, 3, answer)
}

func TestLoad_BareQuote(t *testing.T) {
	data := header +
		"1,Pipe of 3\" diameter?,a,b,c,d,2,text,\n" +
		"2,\"Quoted, with comma\",a,b,c,d,1,text,\n"

	dataset, err := Load(strings.NewReader(data), "q.csv")
	require.NoError(t, err)
	require.Equal(t, 2, dataset.Len())

	assert.Equal(t, `Pipe of 3" diameter?`, dataset.Rows()[0].Prompt)
	assert.Equal(t, "Quoted, with comma", dataset.Rows()[1].Prompt)
}

func TestLoad_MissingColumns(t *testing.T) {
	testCases := []struct {
		name    string
		header  string
		missing []string
	}{
		{
			name:    "one missing",
			header:  "number,prompt,choice1,choice2,choice3,choice4,correctAnswer,type\n",
			missing: []string{"imageRef"},
		},
		{
			name:    "several missing",
			header:  "number,choice1,choice2,choice4,type,imageRef\n",
			missing: []string{"choice3", "correctAnswer", "prompt"},
		},
		{
			name:   "all missing",
			header: "foo,bar\n",
			missing: []string{
				"choice1", "choice2", "choice3", "choice4",
				"correctAnswer", "imageRef", "number", "prompt", "type",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dataset, err := Load(strings.NewReader(tc.header+"1,2\n"), "bad.csv")
			require.Error(t, err)
			assert.Nil(t, dataset)
			assert.ErrorIs(t, err, ErrValidation)

			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tc.missing, validationErr.Missing)
			assert.Equal(t, "bad.csv", validationErr.Dataset)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		data   string
		target error
	}{
		{name: "empty file", data: "", target: ErrEmptyDataset},
		{name: "header only", data: header, target: ErrEmptyDataset},
		{name: "bad number", data: header + "x,q,a,b,c,d,1,text,\n", target: ErrValidation},
		{name: "duplicate number", data: header + "1,q,a,b,c,d,1,text,\n1,q,a,b,c,d,2,text,\n", target: ErrValidation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dataset, err := Load(strings.NewReader(tc.data), "x.csv")
			assert.ErrorIs(t, err, tc.target)
			assert.Nil(t, dataset)
		})
	}
}

func TestRow_Answer(t *testing.T) {
	testCases := []struct {
		raw    string
		answer int
		ok     bool
	}{
		{raw: "1", answer: 1, ok: true},
		{raw: " 4 ", answer: 4, ok: true},
		{raw: "2.0", answer: 2, ok: true},
		{raw: "", ok: false},
		{raw: "nan", ok: false},
		{raw: "2.5", ok: false},
		{raw: "5", ok: false},
		{raw: "0", ok: false},
		{raw: "two", ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			row := NewRow(1, "q", [ChoiceCount]string{}, tc.raw, "text", "")
			answer, ok := row.Answer()
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.answer, answer)
		})
	}
}

func TestLoad_ShortRecords(t *testing.T) {
	data := header + "1,Only prompt\n"

	dataset, err := Load(strings.NewReader(data), "short.csv")
	require.NoError(t, err)

	row, ok := dataset.Row(1)
	require.True(t, ok)
	assert.Equal(t, "Only prompt", row.Prompt)
	assert.Equal(t, TypeText, row.Type)

	_, ok = row.Answer()
	assert.False(t, ok)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLibrary(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.csv", header+"1,q,a,b,c,d,1,text,\n")
	writeFile(t, dir, "a.csv", header+"2,q,a,b,c,d,2,text,\n")
	writeFile(t, dir, "notes.txt", "ignored")

	library := NewLibrary(dir)

	names, err := library.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.csv", "b.csv"}, names)

	dataset, err := library.Get("a.csv")
	require.NoError(t, err)
	assert.Equal(t, []int{2}, dataset.Numbers())

	again, err := library.Get("a.csv")
	require.NoError(t, err)
	assert.Same(t, dataset, again)

	_, err = library.Get("missing.csv")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = library.Get("../a.csv")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLibrary_NoDatasets(t *testing.T) {
	_, err := NewLibrary(t.TempDir()).List()
	assert.ErrorIs(t, err, ErrNoDatasets)

	_, err = NewLibrary(filepath.Join(t.TempDir(), "absent")).List()
	assert.ErrorIs(t, err, ErrNoDatasets)
}
