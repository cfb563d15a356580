package integration

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshotView struct {
	SurveyID       string `json:"survey_id"`
	TotalResponses int    `json:"total_responses"`
	TotalQuestions int    `json:"total_questions"`
	Questions      []struct {
		Text    string         `json:"text"`
		Kind    string         `json:"kind"`
		Counts  map[string]int `json:"counts"`
		Answers []string       `json:"answers"`
		Average string         `json:"average"`
	} `json:"questions"`
	VolumeByDay map[string]int `json:"volume_by_day"`
	AgeBrackets map[string]int `json:"age_brackets"`
}

func questionIDs(t *testing.T, app *TestApp, token, surveyID string) []string {
	t.Helper()

	resp := doRequest(t, app, http.MethodGet, "/api/surveys/"+surveyID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var survey struct {
		Questions []struct {
			ID string `json:"id"`
		} `json:"questions"`
	}
	decodeBody(t, resp, &survey)

	ids := make([]string, 0, len(survey.Questions))
	for _, q := range survey.Questions {
		ids = append(ids, q.ID)
	}
	return ids
}

func submitAnswer(t *testing.T, app *TestApp, token, surveyID, questionID, value string) *http.Response {
	t.Helper()

	body := map[string]any{
		"answers": []map[string]any{
			{"question_id": questionID, "value": value},
		},
	}
	return doRequest(t, app, http.MethodPost, "/api/surveys/"+surveyID+"/responses", token, body)
}

func TestSubmitResponse(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	org := createOrganization(t, app.DB)
	surveyID := createSurvey(t, app, org.Token, surveyPayload("Lunch options"))
	qIDs := questionIDs(t, app, org.Token, surveyID)

	respondent := createRespondent(t, app.DB, profileOpts{age: intPtr(28)})

	resp := submitAnswer(t, app, respondent.Token, surveyID, qIDs[0], "X")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID      string `json:"id"`
		Answers []struct {
			Value string `json:"value"`
		} `json:"answers"`
	}
	decodeBody(t, resp, &created)
	assert.NotEmpty(t, created.ID)
	require.Len(t, created.Answers, 1)
	assert.Equal(t, "X", created.Answers[0].Value)

	detail := doRequest(t, app, http.MethodGet, "/api/surveys/"+surveyID, respondent.Token, nil)
	require.Equal(t, http.StatusOK, detail.StatusCode)

	var surveyDetail struct {
		HasResponded bool `json:"has_responded"`
	}
	decodeBody(t, detail, &surveyDetail)
	assert.True(t, surveyDetail.HasResponded)
}

func TestSubmitResponseDuplicateRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	org := createOrganization(t, app.DB)
	surveyID := createSurvey(t, app, org.Token, surveyPayload("One shot"))
	qIDs := questionIDs(t, app, org.Token, surveyID)

	respondent := createRespondent(t, app.DB, profileOpts{})

	first := submitAnswer(t, app, respondent.Token, surveyID, qIDs[0], "X")
	first.Body.Close()
	require.Equal(t, http.StatusCreated, first.StatusCode)

	second := submitAnswer(t, app, respondent.Token, surveyID, qIDs[0], "Y")
	second.Body.Close()
	assert.Equal(t, http.StatusConflict, second.StatusCode)

	var count int
	require.NoError(t, app.DB.QueryRow(
		"SELECT COUNT(*) FROM responses WHERE survey_id = $1", surveyID,
	).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestResultsAggregation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	org := createOrganization(t, app.DB)
	surveyID := createSurvey(t, app, org.Token, surveyPayload("Team vote"))
	qIDs := questionIDs(t, app, org.Token, surveyID)

	alice := createRespondent(t, app.DB, profileOpts{age: intPtr(24)})
	bob := createRespondent(t, app.DB, profileOpts{age: intPtr(41)})

	for _, u := range []testUser{alice, bob} {
		resp := submitAnswer(t, app, u.Token, surveyID, qIDs[0], "X")
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := doRequest(t, app, http.MethodGet, "/api/surveys/"+surveyID+"/results", org.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snapshot snapshotView
	decodeBody(t, resp, &snapshot)

	assert.Equal(t, surveyID, snapshot.SurveyID)
	assert.Equal(t, 2, snapshot.TotalResponses)
	assert.Equal(t, 1, snapshot.TotalQuestions)
	require.Len(t, snapshot.Questions, 1)
	assert.Equal(t, map[string]int{"X": 2}, snapshot.Questions[0].Counts)

	today := time.Now().UTC().Format("2006-01-02")
	assert.Equal(t, map[string]int{today: 2}, snapshot.VolumeByDay)

	assert.Equal(t, 1, snapshot.AgeBrackets["<=25"])
	assert.Equal(t, 1, snapshot.AgeBrackets["36-50"])
	assert.Equal(t, 0, snapshot.AgeBrackets["26-35"])
	assert.Equal(t, 0, snapshot.AgeBrackets["51+"])
}

func TestResultsStream(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	org := createOrganization(t, app.DB)
	surveyID := createSurvey(t, app, org.Token, surveyPayload("Live board"))
	qIDs := questionIDs(t, app, org.Token, surveyID)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, app.Server.URL+"/api/surveys/"+surveyID+"/events", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+org.Token)

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	scanner := bufio.NewScanner(resp.Body)
	readSnapshot := func() snapshotView {
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			var snapshot snapshotView
			require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &snapshot))
			return snapshot
		}
		t.Fatalf("stream ended before a snapshot arrived: %v", scanner.Err())
		return snapshotView{}
	}

	initial := readSnapshot()
	assert.Equal(t, 0, initial.TotalResponses)

	respondent := createRespondent(t, app.DB, profileOpts{age: intPtr(30)})
	submitResp := submitAnswer(t, app, respondent.Token, surveyID, qIDs[0], "Y")
	submitResp.Body.Close()
	require.Equal(t, http.StatusCreated, submitResp.StatusCode)

	updated := readSnapshot()
	assert.Equal(t, 1, updated.TotalResponses)
	require.Len(t, updated.Questions, 1)
	assert.Equal(t, map[string]int{"Y": 1}, updated.Questions[0].Counts)
}

func TestListMyResponses(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	org := createOrganization(t, app.DB)
	firstID := createSurvey(t, app, org.Token, surveyPayload("First"))
	secondID := createSurvey(t, app, org.Token, surveyPayload("Second"))

	respondent := createRespondent(t, app.DB, profileOpts{})
	for _, id := range []string{firstID, secondID} {
		qIDs := questionIDs(t, app, respondent.Token, id)
		resp := submitAnswer(t, app, respondent.Token, id, qIDs[0], "X")
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := doRequest(t, app, http.MethodGet, "/api/responses/mine", respondent.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var responses []struct {
		SurveyID string `json:"survey_id"`
	}
	decodeBody(t, resp, &responses)

	require.Len(t, responses, 2)
	assert.ElementsMatch(t, []string{firstID, secondID},
		[]string{responses[0].SurveyID, responses[1].SurveyID})
}

func TestExportCSV(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	org := createOrganization(t, app.DB)
	surveyID := createSurvey(t, app, org.Token, surveyPayload("Export me"))
	qIDs := questionIDs(t, app, org.Token, surveyID)

	respondent := createRespondent(t, app.DB, profileOpts{age: intPtr(33), department: "Sales"})
	submitResp := submitAnswer(t, app, respondent.Token, surveyID, qIDs[0], "X")
	submitResp.Body.Close()
	require.Equal(t, http.StatusCreated, submitResp.StatusCode)

	resp := doRequest(t, app, http.MethodGet, "/api/surveys/"+surveyID+"/export/csv", org.Token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	scanner := bufio.NewScanner(resp.Body)
	require.True(t, scanner.Scan())
	assert.Equal(t, "respondent,age,department,occupation,question,answer,date", scanner.Text())
	require.True(t, scanner.Scan())
	row := scanner.Text()
	assert.Contains(t, row, "33")
	assert.Contains(t, row, "Sales")
	assert.Contains(t, row, "Pick one")
	assert.Contains(t, row, ",X,")
}

func TestMe(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	respondent := createRespondent(t, app.DB, profileOpts{age: intPtr(29), occupation: "Designer"})

	resp := doRequest(t, app, http.MethodGet, "/api/me", respondent.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me struct {
		ID         string `json:"id"`
		Role       string `json:"role"`
		Age        *int   `json:"age"`
		Occupation string `json:"occupation"`
	}
	decodeBody(t, resp, &me)

	assert.Equal(t, respondent.ID.String(), me.ID)
	assert.Equal(t, "respondent", me.Role)
	require.NotNil(t, me.Age)
	assert.Equal(t, 29, *me.Age)
	assert.Equal(t, "Designer", me.Occupation)
}
