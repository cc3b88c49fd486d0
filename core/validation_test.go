package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSourceID(t *testing.T) {
	require.NoError(t, ValidateSourceID("source:abc123"))

	err := ValidateSourceID("   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptySourceID)
}

func TestValidateQuestion(t *testing.T) {
	require.NoError(t, ValidateQuestion("What is this document about?"))

	err := ValidateQuestion("")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyQuestion)
}

func TestValidateRegisterPaths(t *testing.T) {
	t.Run("local only", func(t *testing.T) {
		assert.NoError(t, ValidateRegisterPaths("/tmp/report.pdf", ""))
	})

	t.Run("server only", func(t *testing.T) {
		assert.NoError(t, ValidateRegisterPaths("", "uploads/report.pdf"))
	})

	t.Run("both", func(t *testing.T) {
		err := ValidateRegisterPaths("/tmp/report.pdf", "uploads/report.pdf")
		assert.ErrorIs(t, err, ErrBothPathsProvided)
	})

	t.Run("neither", func(t *testing.T) {
		err := ValidateRegisterPaths("", "  ")
		assert.ErrorIs(t, err, ErrNoPathProvided)
	})
}

func TestValidateSource(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		src := &Source{ID: "src_1", Status: "running"}
		assert.NoError(t, ValidateSource(src))
	})

	t.Run("nil", func(t *testing.T) {
		assert.Error(t, ValidateSource(nil))
	})

	t.Run("missing id", func(t *testing.T) {
		err := ValidateSource(&Source{Status: "completed"})
		assert.ErrorIs(t, err, ErrEmptySourceID)
	})

	t.Run("unknown status", func(t *testing.T) {
		err := ValidateSource(&Source{ID: "src_1", Status: "exploded"})
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})
}

func TestErrorTaxonomy(t *testing.T) {
	t.Run("transport wraps cause", func(t *testing.T) {
		cause := assert.AnError
		err := &TransportError{Op: "POST /sources", Err: cause}
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "POST /sources")
	})

	t.Run("backend preserves message", func(t *testing.T) {
		err := &BackendError{StatusCode: 422, Message: "unsupported file type"}
		assert.Contains(t, err.Error(), "422")
		assert.Contains(t, err.Error(), "unsupported file type")
	})

	t.Run("timeout carries last status", func(t *testing.T) {
		err := &TimeoutError{SourceID: "src_1", LastStatus: StatusProcessing}
		assert.Contains(t, err.Error(), "src_1")
		assert.Contains(t, err.Error(), "processing")
	})
}
