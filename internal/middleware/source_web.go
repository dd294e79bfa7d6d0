package middleware

import (
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

const CtxSourceWebKey = "source_web" // usecase.SourceWeb

// source-webヘッダからリクエストの出どころを決める。
// 不明な値・未指定はUSER扱い（公開側に倒す）
func ResolveSourceWeb() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			source := usecase.SourceUser

			switch usecase.SourceWeb(c.Request().Header.Get("source-web")) {
			case usecase.SourceInternal:
				source = usecase.SourceInternal
			case usecase.SourceUser:
				source = usecase.SourceUser
			}

			c.Set(CtxSourceWebKey, source)
			return next(c)
		}
	}
}

func SourceWebFrom(c echo.Context) usecase.SourceWeb {
	if s, ok := c.Get(CtxSourceWebKey).(usecase.SourceWeb); ok {
		return s
	}
	return usecase.SourceUser
}
