package respimg

import (
	"errors"
	"testing"

	"github.com/itsatony/go-cuserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnknownVariantError(t *testing.T) {
	err := NewUnknownVariantError("thumb")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgUnknownVariant)
	assert.True(t, errors.Is(err, ErrUnknownVariant))
	assert.True(t, IsUnknownVariant(err))

	var customErr *cuserr.CustomError
	require.True(t, errors.As(err, &customErr))
	variant, ok := customErr.GetMetadata(MetaKeyVariant)
	assert.True(t, ok)
	assert.Equal(t, "thumb", variant)

	assert.False(t, IsUnknownVariant(errors.New(ErrMsgUnknownVariant)))
	assert.False(t, IsUnknownVariant(nil))
}

func TestNewConfigError(t *testing.T) {
	err := NewConfigError(ErrMsgEmptyDefault, "default", "")
	require.Error(t, err)

	var customErr *cuserr.CustomError
	require.True(t, errors.As(err, &customErr))
	field, ok := customErr.GetMetadata(MetaKeyField)
	assert.True(t, ok)
	assert.Equal(t, "default", field)
}

func TestNewConfigFileError(t *testing.T) {
	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("disk gone")
		err := NewConfigFileError(ErrMsgConfigRead, "/etc/sizes.yaml", cause)
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("without cause", func(t *testing.T) {
		err := NewConfigFileError(ErrMsgUnsupportedFileType, "sizes.toml", nil)
		assert.Contains(t, err.Error(), ErrMsgUnsupportedFileType)
	})
}

func TestNewRenderError(t *testing.T) {
	cause := errors.New("writer failed")
	err := NewRenderError(cause)
	assert.Contains(t, err.Error(), ErrMsgRenderFailed)
	assert.True(t, errors.Is(err, cause))
}

func TestAttachmentNotFound(t *testing.T) {
	err := NewAttachmentNotFoundError("hero")
	assert.True(t, IsAttachmentNotFound(err))
	assert.True(t, errors.Is(err, ErrAttachmentNotFound))

	var customErr *cuserr.CustomError
	require.True(t, errors.As(err, &customErr))
	name, ok := customErr.GetMetadata(MetaKeyAttachment)
	assert.True(t, ok)
	assert.Equal(t, "hero", name)

	assert.False(t, IsAttachmentNotFound(NewStoreClosedError()))
}

func TestStoreError(t *testing.T) {
	t.Run("message only", func(t *testing.T) {
		assert.Equal(t, ErrMsgStoreClosed, NewStoreClosedError().Error())
	})

	t.Run("with name", func(t *testing.T) {
		err := NewStoreDriverNotFoundError("redis")
		assert.Equal(t, ErrMsgStoreDriverNotFound+": redis", err.Error())
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("permission denied")
		err := &StoreError{Message: ErrMsgReadManifest, Name: "hero", Cause: cause}
		assert.Equal(t, ErrMsgReadManifest+": hero: permission denied", err.Error())
		assert.True(t, errors.Is(err, cause))
	})
}
