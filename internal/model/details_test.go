package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportDecodesVariantByType(t *testing.T) {
	raw := `{"id":"R1","type":"DAILY_LOG","projectId":"P1","authorId":"U1","authorName":"张三",
		"content":"c","date":"2025-03-07","status":"PENDING","isImportant":false,
		"details":{"weather":"晴","temp":"25℃","progress":"浇筑","images":["data:image/png;base64,AA=="],"typo":"x"}}`

	var r Report
	require.NoError(t, json.Unmarshal([]byte(raw), &r))

	d, ok := r.Details.(*DailyLog)
	require.True(t, ok, "got %T", r.Details)
	assert.Equal(t, "晴", d.Weather)
	assert.Equal(t, "25℃", d.Temp)
	assert.Equal(t, "浇筑", d.Progress)
	assert.Len(t, r.Media().Images, 1)
}

func TestUnknownTypeFallsBackToGeneric(t *testing.T) {
	var r Report
	require.NoError(t, json.Unmarshal([]byte(`{"id":"R2","type":"SOMETHING_NEW","details":{"images":["a"]}}`), &r))
	_, ok := r.Details.(*GenericDetails)
	assert.True(t, ok)
	assert.Equal(t, []string{"a"}, r.Media().Images)
}

func TestMalformedDetailsDegradeToEmpty(t *testing.T) {
	var r Report
	require.NoError(t, json.Unmarshal([]byte(`{"id":"R3","type":"NOTICE","details":"not an object"}`), &r))
	n, ok := r.Details.(*Notice)
	require.True(t, ok)
	assert.Empty(t, n.Findings)
}

func TestMissingDetails(t *testing.T) {
	var r Report
	require.NoError(t, json.Unmarshal([]byte(`{"id":"R4","type":"MONTHLY"}`), &r))
	assert.IsType(t, &Monthly{}, r.Details)

	out, err := json.Marshal(Report{ID: "R5", Type: MinutesType})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"details":{`)
}

func TestAmount(t *testing.T) {
	tests := []struct {
		in   string
		want Amount
	}{
		{`{"amount":1280.5}`, NewAmount(1280.5)},
		{`{"amount":"300"}`, NewAmount(300)},
		{`{"amount":""}`, Amount{}},
		{`{"amount":null}`, Amount{}},
		{`{"amount":"abc"}`, Amount{}},
		{`{"amount":"NaN"}`, Amount{}},
		{`{"amount":"Inf"}`, Amount{}},
		{`{"amount":"-Inf"}`, Amount{}},
		{`{"amount":"Infinity"}`, Amount{}},
		{`{"amount":"1e400"}`, Amount{}},
		{`{}`, Amount{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var d ExpenseReimbursement
			require.NoError(t, json.Unmarshal([]byte(tt.in), &d))
			assert.Equal(t, tt.want, d.Amount)
		})
	}

	out, err := json.Marshal(ExpenseReimbursement{Amount: NewAmount(12)})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"amount":12`)
}

func TestNonFiniteAmountStillMarshals(t *testing.T) {
	d, err := DetailsFromValues(ExpenseReimbursementType, map[string]any{"amount": "NaN"})
	require.NoError(t, err)
	r := Report{ID: "R9", Type: ExpenseReimbursementType, Details: d}
	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"amount":null`)

	out, err = json.Marshal(ExpenseReimbursement{Amount: NewAmount(math.Inf(1))})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"amount":null`)
}

func TestDetailsFromValues(t *testing.T) {
	d, err := DetailsFromValues(ExpenseReimbursementType, map[string]any{
		"category": "差旅费", "amount": "99.9", "reimbursementDesc": "出差",
	})
	require.NoError(t, err)
	e := d.(*ExpenseReimbursement)
	assert.Equal(t, "差旅费", e.Category)
	assert.Equal(t, NewAmount(99.9), e.Amount)

	_, err = DetailsFromValues(DailyLogType, map[string]any{"weather": 12})
	assert.Error(t, err)
}

func TestEveryTypeHasVariant(t *testing.T) {
	for _, typ := range ReportTypes {
		_, generic := NewDetails(typ).(*GenericDetails)
		assert.False(t, generic, "type %s has no dedicated payload", typ)
	}
}
