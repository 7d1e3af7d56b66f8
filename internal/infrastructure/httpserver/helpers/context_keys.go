package helpers

import (
	"github.com/labstack/echo/v4"
)

type ctxKey string

const (
	keyUserID        ctxKey = "user_id"
	keyUserEmail     ctxKey = "user_email"
	keyCompetitionID ctxKey = "competition_id"
	keyAnonymous     ctxKey = "anonymous"
)

func SetUserID(c echo.Context, id string) { c.Set(string(keyUserID), id) }
func GetUserIDRaw(c echo.Context) (string, bool) {
	v := c.Get(string(keyUserID))
	id, ok := v.(string)
	return id, ok && id != ""
}

func SetUserEmail(c echo.Context, email string) { c.Set(string(keyUserEmail), email) }
func GetUserEmailRaw(c echo.Context) (string, bool) {
	v := c.Get(string(keyUserEmail))
	s, ok := v.(string)
	return s, ok
}

func SetCompetitionID(c echo.Context, id int64) { c.Set(string(keyCompetitionID), id) }
func GetCompetitionIDRaw(c echo.Context) (int64, bool) {
	v := c.Get(string(keyCompetitionID))
	id, ok := v.(int64)
	return id, ok
}

func SetAnonymous(c echo.Context, anon bool) { c.Set(string(keyAnonymous), anon) }
func IsAnonymous(c echo.Context) bool {
	v, _ := c.Get(string(keyAnonymous)).(bool)
	return v
}
