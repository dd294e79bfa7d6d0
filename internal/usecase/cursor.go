package usecase

import (
	"fmt"
	"strings"
	"time"

	repo "app/internal/repository"
)

// カーソルは「前ページ最後の行のcreatedAtとid」をアンダースコアで繋いだ文字列。
// 例: 2024-01-02T03:04:05.123456789Z_8f14e45f-...
const cursorTimeLayout = time.RFC3339Nano

func EncodeCursor(createdAt time.Time, id string) string {
	return fmt.Sprintf("%s_%s", createdAt.UTC().Format(cursorTimeLayout), id)
}

func DecodeCursor(s string) (repo.Cursor, error) {
	parts := strings.SplitN(s, "_", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return repo.Cursor{}, fmt.Errorf("malformed cursor")
	}

	createdAt, err := time.Parse(cursorTimeLayout, parts[0])
	if err != nil {
		return repo.Cursor{}, fmt.Errorf("malformed cursor timestamp: %w", err)
	}

	return repo.Cursor{CreatedAt: createdAt, ID: parts[1]}, nil
}
