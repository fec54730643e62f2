package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataForKnownCodes(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, MetadataFor(CodeValidation).HTTPStatus)
	assert.Equal(t, http.StatusUnprocessableEntity, MetadataFor(CodeStateConflict).HTTPStatus)
	assert.Equal(t, http.StatusConflict, MetadataFor(CodeConflict).HTTPStatus)
	assert.True(t, MetadataFor(CodeDependency).Retryable)
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("SOMETHING_ELSE"))
	assert.Equal(t, http.StatusInternalServerError, meta.HTTPStatus)
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("db down")
	err := Wrap(CodeDependency, cause, "load order")

	require.NotNil(t, err)
	assert.Equal(t, CodeDependency, err.Code())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "DEPENDENCY_ERROR: load order", err.Error())
}

func TestAsUnwrapsThroughFmtWrapping(t *testing.T) {
	inner := New(CodeNotFound, "product missing")
	wrapped := fmt.Errorf("handler: %w", inner)

	typed := As(wrapped)
	require.NotNil(t, typed)
	assert.Equal(t, CodeNotFound, typed.Code())
}

func TestAsReturnsNilForPlainErrors(t *testing.T) {
	assert.Nil(t, As(stdErrors.New("plain")))
	assert.Nil(t, As(nil))
}

func TestDumpCollectsChain(t *testing.T) {
	cause := stdErrors.New("timeout")
	err := Wrap(CodeDependency, cause, "fetch places")

	dump := Dump(err)
	assert.Equal(t, CodeDependency, dump.Code)
	require.Len(t, dump.Chain, 2)
	assert.Equal(t, "timeout", dump.Chain[1])
}
