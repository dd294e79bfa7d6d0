package media

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"
	"time"

	"app/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

func TestSignUpload_Params(t *testing.T) {
	signer := NewSigner("demo-cloud", "api-key", "api-secret")
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	sig, err := signer.SignUpload("photo.jpg", model.EntityTypeProducts, now)
	assert.NoError(t, err)

	assert.Equal(t, now.Unix(), sig.Timestamp)
	assert.Equal(t, "f_webp,q_auto|w_500,f_webp,q_auto", sig.Eager)
	assert.Equal(t, "e-commerce", sig.Folder)
	assert.Equal(t, "api-key", sig.APIKey)
	assert.Equal(t, "demo-cloud", sig.CloudName)

	assert.True(t, strings.HasPrefix(sig.PublicID, "PRODUCTS/tmp/"))
	assert.True(t, strings.HasSuffix(sig.PublicID, "-photo.jpg"))

	//署名はキー昇順のk=v連結 + secretのsha256
	payload := fmt.Sprintf("eager=%s&folder=%s&public_id=%s&timestamp=%d",
		sig.Eager, sig.Folder, sig.PublicID, sig.Timestamp)
	sum := sha256.Sum256([]byte(payload + "api-secret"))
	assert.Equal(t, hex.EncodeToString(sum[:]), sig.Signature)
}

func TestSignUpload_UniquePublicIDs(t *testing.T) {
	signer := NewSigner("demo-cloud", "api-key", "api-secret")
	now := time.Now()

	a, err := signer.SignUpload("photo.jpg", model.EntityTypeProducts, now)
	assert.NoError(t, err)
	b, err := signer.SignUpload("photo.jpg", model.EntityTypeProducts, now)
	assert.NoError(t, err)

	assert.NotEqual(t, a.PublicID, b.PublicID)
}

func TestSignUpload_Invalid(t *testing.T) {
	signer := NewSigner("demo-cloud", "api-key", "api-secret")

	_, err := signer.SignUpload("", model.EntityTypeProducts, time.Now())
	assert.Error(t, err)

	_, err = signer.SignUpload("photo.jpg", model.EntityType("WAREHOUSES"), time.Now())
	assert.Error(t, err)
}
