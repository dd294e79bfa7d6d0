package media

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"app/internal/domain/model"

	"github.com/google/uuid"
)

const (
	// 変換プリセット: webp最適化 + 500px中間サイズ
	uploadEager  = "f_webp,q_auto|w_500,f_webp,q_auto"
	uploadFolder = "e-commerce"
)

// Cloudinary互換の署名付きアップロードパラメータを作る
type Signer struct {
	cloudName string
	apiKey    string
	apiSecret string
}

func NewSigner(cloudName, apiKey, apiSecret string) *Signer {
	return &Signer{
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
	}
}

type UploadSignature struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	Eager     string `json:"eager"`
	PublicID  string `json:"publicId"`
	Folder    string `json:"folder"`
	APIKey    string `json:"key"`
	CloudName string `json:"cloudname"`
}

// アップロード前に取得する署名。public_idは<type>/tmp/<uuid>-<fileName>
func (s *Signer) SignUpload(fileName string, t model.EntityType, now time.Time) (UploadSignature, error) {
	if fileName == "" {
		return UploadSignature{}, fmt.Errorf("file name is required")
	}
	if !t.Valid() {
		return UploadSignature{}, fmt.Errorf("invalid entity type: %s", t)
	}

	timestamp := now.Unix()
	publicID := fmt.Sprintf("%s/tmp/%s-%s", t, uuid.NewString(), fileName)

	signature := s.sign(map[string]string{
		"timestamp": fmt.Sprintf("%d", timestamp),
		"eager":     uploadEager,
		"public_id": publicID,
		"folder":    uploadFolder,
	})

	return UploadSignature{
		Signature: signature,
		Timestamp: timestamp,
		Eager:     uploadEager,
		PublicID:  publicID,
		Folder:    uploadFolder,
		APIKey:    s.apiKey,
		CloudName: s.cloudName,
	}, nil
}

// キー昇順で"k=v"を&連結し、末尾にsecretを足してsha256
func (s *Signer) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, params[k]))
	}

	sum := sha256.Sum256([]byte(strings.Join(pairs, "&") + s.apiSecret))
	return hex.EncodeToString(sum[:])
}
