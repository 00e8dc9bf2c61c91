package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errMissing = errors.New("order not found")
	errLocked  = errors.New("order cannot be edited")
)

func TestResponderMapsSentinelsInOrder(t *testing.T) {
	responder := NewResponder("",
		Matching(ErrNotFound, errMissing),
		Matching(ErrConflict, errLocked),
	)

	problem := responder.Problem(fmt.Errorf("%w: order 3 is shipped", errLocked))
	assert.Equal(t, http.StatusConflict, problem.Status)
	assert.Equal(t, "order cannot be edited: order 3 is shipped", problem.Detail)

	problem = responder.Problem(errMissing)
	assert.Equal(t, http.StatusNotFound, problem.Status)

	problem = responder.Problem(errors.New("disk full"))
	assert.Equal(t, http.StatusInternalServerError, problem.Status)
	assert.Equal(t, 500, HTTPStatusFromError(problem))
}

func TestRespondWritesProblemJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/orders/9", nil)

	NewResponder("https://desk.example").Respond(c, NewNotFoundProblem("order", 9))

	require.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, ContentTypeProblemJSON, recorder.Header().Get("Content-Type"))
	var body ProblemDetail
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "https://desk.example"+TypeNotFound, body.Type)
	assert.Equal(t, "/v1/orders/9", body.Instance)
	assert.Equal(t, "order", body.Extensions["resourceType"])
}

func TestWithExtensionDoesNotShareMaps(t *testing.T) {
	base := ErrConflict.WithExtension("a", 1)
	derived := base.WithExtension("b", 2)
	assert.Len(t, base.Extensions, 1)
	assert.Len(t, derived.Extensions, 2)
}
