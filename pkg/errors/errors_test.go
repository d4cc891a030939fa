package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataForKnownCodes(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, MetadataFor(CodeValidation).HTTPStatus)
	assert.Equal(t, http.StatusNotFound, MetadataFor(CodeNotFound).HTTPStatus)
	assert.Equal(t, http.StatusConflict, MetadataFor(CodeConflict).HTTPStatus)
	assert.Equal(t, http.StatusUnprocessableEntity, MetadataFor(CodeStateConflict).HTTPStatus)
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	assert.Equal(t, http.StatusInternalServerError, meta.HTTPStatus)
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Wrap(CodeDependency, cause, "load record")

	require.NotNil(t, err)
	assert.Equal(t, CodeDependency, err.Code())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "DEPENDENCY_ERROR: load record", err.Error())
}

func TestAsFindsNestedTypedError(t *testing.T) {
	typed := New(CodeConflict, "item not available")
	wrapped := fmt.Errorf("claim: %w", typed)

	found := As(wrapped)
	require.NotNil(t, found)
	assert.Equal(t, CodeConflict, found.Code())
	assert.Equal(t, "item not available", found.Message())
}

func TestAsReturnsNilForPlainErrors(t *testing.T) {
	assert.Nil(t, As(errors.New("plain")))
	assert.Nil(t, As(nil))
}

func TestDumpCollectsChain(t *testing.T) {
	err := Wrap(CodeInternal, fmt.Errorf("inner"), "outer")
	dump := Dump(err)

	assert.Equal(t, CodeInternal, dump.Code)
	require.Len(t, dump.Chain, 2)
}
