package errors

import (
	stderrors "errors"
	"io/fs"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifiedError_MessageAndCause(t *testing.T) {
	cause := stderrors.New("disk gone")
	err := WrapError(cause, CategoryVault, "read document").
		WithContext("path", "notes/a.md").
		Build()

	require.Contains(t, err.Error(), "read document")
	require.Contains(t, err.Error(), "disk gone")
	require.Equal(t, CategoryVault, err.Category())
	require.Equal(t, SeverityError, err.Severity())
	require.ErrorIs(t, err, cause)
	require.Equal(t, "notes/a.md", err.Context()["path"])
}

func TestAsClassified_ThroughWrapping(t *testing.T) {
	inner := NotFoundError("document not found").WithContext("path", "x").Build()
	wrapped := WrapError(inner, CategoryRender, "render pass").Build()

	c, ok := AsClassified(wrapped)
	require.True(t, ok)
	// As finds the outermost classified error first.
	require.Equal(t, CategoryRender, c.Category())
}

func TestIsNotFound(t *testing.T) {
	require.True(t, IsNotFound(NotFoundError("missing").Build()))
	require.False(t, IsNotFound(VaultError("io").Build()))
	require.False(t, IsNotFound(fs.ErrNotExist))
	require.False(t, IsNotFound(nil))
}

func TestBuilder_SeverityAndRetry(t *testing.T) {
	err := CacheError("store row").Build()
	require.Equal(t, RetryBackoff, err.RetryStrategy())

	err = ConfigError("bad settings file").Build()
	require.Equal(t, SeverityFatal, err.Severity())
}

func TestWithContext_DoesNotMutateOriginal(t *testing.T) {
	base := VaultError("io").Build()
	derived := base.WithContext("path", "a.md")

	require.Empty(t, base.Context()["path"])
	require.Equal(t, "a.md", derived.Context()["path"])
}

func TestHTTPAdapter_StatusCodes(t *testing.T) {
	a := NewHTTPErrorAdapter(nil)

	require.Equal(t, 200, a.StatusCodeFor(nil))
	require.Equal(t, 404, a.StatusCodeFor(NotFoundError("missing").Build()))
	require.Equal(t, 400, a.StatusCodeFor(ValidationError("bad").Build()))
	require.Equal(t, 422, a.StatusCodeFor(RenderError("parse").Build()))
	require.Equal(t, 500, a.StatusCodeFor(stderrors.New("plain")))
}

func TestHTTPAdapter_WriteErrorResponse(t *testing.T) {
	a := NewHTTPErrorAdapter(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/docs/a", nil)

	a.WriteErrorResponse(rec, req, NotFoundError("document not found").Build())

	require.Equal(t, 404, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Body.String(), "document not found")
	require.Contains(t, rec.Body.String(), "not_found")
}
