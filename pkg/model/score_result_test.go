package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoredTextDecodeCamelCase(t *testing.T) {
	body := `{
		"pageId": 7,
		"isProposed": true,
		"aiScore": 1.057,
		"gdpr": {"childText": "c", "adultText": "a", "proposedText": "p"},
		"raw": {"proposedText": "rp"}
	}`
	var s ScoredText
	require.NoError(t, json.Unmarshal([]byte(body), &s))
	assert.Equal(t, 7, s.PageID)
	assert.True(t, s.IsProposed)
	assert.Equal(t, 1.057, s.AIScore)
	assert.Equal(t, "c", s.Gdpr.ChildText)
	assert.Equal(t, "a", s.Gdpr.AdultText)
	assert.Equal(t, "p", s.Gdpr.ProposedText)
	assert.Equal(t, "rp", s.Raw.ProposedText)
}

func TestScoredTextDecodeSnakeCase(t *testing.T) {
	// 接口的另一种字段写法也要能解析出同样的结果
	body := `{
		"page_id": 7,
		"is_proposed": true,
		"ai_score": 1.057,
		"gdpr": {"child_text": "c", "adult_text": "a", "proposed_text": "p"},
		"raw": {"proposed_text": "rp"}
	}`
	var s ScoredText
	require.NoError(t, json.Unmarshal([]byte(body), &s))
	assert.Equal(t, 7, s.PageID)
	assert.True(t, s.IsProposed)
	assert.Equal(t, 1.057, s.AIScore)
	assert.Equal(t, "c", s.Gdpr.ChildText)
	assert.Equal(t, "rp", s.Raw.ProposedText)
}

func TestScoredTextDecodeMissingFields(t *testing.T) {
	var s ScoredText
	require.NoError(t, json.Unmarshal([]byte(`{"pageId": 3}`), &s))
	assert.Equal(t, 3, s.PageID)
	assert.False(t, s.IsProposed)
	assert.Zero(t, s.AIScore)
	assert.Equal(t, TextTriple{}, s.Gdpr)
}

func TestScoreResponseDecode(t *testing.T) {
	body := `{"texts": [{"pageId": 0, "aiScore": 0.1}, {"pageId": 1, "ai_score": 0.2}]}`
	var resp ScoreResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.Len(t, resp.Texts, 2)
	assert.Equal(t, 0.1, resp.Texts[0].AIScore)
	assert.Equal(t, 0.2, resp.Texts[1].AIScore)
}

func TestScoreRequestEncode(t *testing.T) {
	req := ScoreRequest{Texts: []ScoreText{{PageID: 0, ChildText: "c", AdultText: "a"}}}
	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"texts":[{"pageId":0,"childText":"c","adultText":"a"}]}`, string(data))
}
