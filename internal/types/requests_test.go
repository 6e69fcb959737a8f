package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyResearchRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     CompanyResearchRequest
		wantErr bool
	}{
		{"url only", CompanyResearchRequest{SessionID: "s1", CompanyURL: "https://acme.com"}, false},
		{"name only", CompanyResearchRequest{SessionID: "s1", CompanyName: "Acme"}, false},
		{"both", CompanyResearchRequest{CompanyURL: "https://acme.com", CompanyName: "Acme"}, false},
		{"neither", CompanyResearchRequest{SessionID: "s1"}, true},
		{"malformed url", CompanyResearchRequest{CompanyURL: "not a url"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPersonaRequest_Validate_RequiresSessionID(t *testing.T) {
	req := PersonaRequest{}
	assert.Error(t, req.Validate())

	req.SessionID = "s1"
	assert.NoError(t, req.Validate())
}

func TestNormalizePersonaRequest_SingleObject(t *testing.T) {
	raw := json.RawMessage(`{"session_id":"s1","interviewer_linkedin_id":"jdoe","company_url":"https://acme.com"}`)

	req, err := NormalizePersonaRequest(raw)
	require.NoError(t, err)
	assert.Equal(t, "s1", req.SessionID)
	assert.Equal(t, "jdoe", req.InterviewerHandle)
	assert.Equal(t, "https://acme.com", req.CompanyKey)
}

func TestNormalizePersonaRequest_StageResultList(t *testing.T) {
	// The orchestrator hands the synthesis stage the array of prior stage
	// results; each field may come from a different element.
	raw := json.RawMessage(`[
		{"statusCode":200,"session_id":"s1","company_url":"https://acme.com"},
		{"statusCode":200,"session_id":"s1","status":"SUCCESS","interviewer_linkedin_id":"jdoe"}
	]`)

	req, err := NormalizePersonaRequest(raw)
	require.NoError(t, err)
	assert.Equal(t, "s1", req.SessionID)
	assert.Equal(t, "jdoe", req.InterviewerHandle)
	assert.Equal(t, "https://acme.com", req.CompanyKey)
}

func TestNormalizePersonaRequest_ListWithMissingFields(t *testing.T) {
	raw := json.RawMessage(`[{"session_id":"s1","status":"SKIPPED"}]`)

	req, err := NormalizePersonaRequest(raw)
	require.NoError(t, err)
	assert.Equal(t, "s1", req.SessionID)
	assert.Empty(t, req.InterviewerHandle)
	assert.Empty(t, req.CompanyKey)
}

func TestNormalizePersonaRequest_Invalid(t *testing.T) {
	_, err := NormalizePersonaRequest(json.RawMessage(`"just a string"`))
	assert.Error(t, err)
}

func TestStageResult_OK(t *testing.T) {
	ok := StageResult{StatusCode: 200, Status: StageStatusSkipped}
	assert.True(t, ok.OK())

	bad := StageResult{StatusCode: 500}
	assert.False(t, bad.OK())
}
