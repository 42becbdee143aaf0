// app/echoServer/jwtx/actor.go
package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/tienvum1/Rentzy--sub001/model"
)

// ActorFromContext rebuilds the authenticated actor from the verified JWT
// claims the auth middleware stashed on the context.
func ActorFromContext(c echo.Context) (model.Actor, error) {
	tok, ok := c.Get("user").(*jwt.Token)
	if !ok || tok == nil {
		return model.Actor{}, errors.New("no jwt token in context")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return model.Actor{}, errors.New("invalid jwt claims")
	}

	sub, ok := claims["sub"].(float64)
	if !ok {
		return model.Actor{}, errors.New("sub missing in claims")
	}
	actor := model.Actor{ID: int64(sub)}

	if raw, ok := claims["caps"].([]any); ok {
		for _, v := range raw {
			if s, ok := v.(string); ok {
				actor.Capabilities = append(actor.Capabilities, s)
			}
		}
	}
	return actor, nil
}
