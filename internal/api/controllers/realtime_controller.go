package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"amazonia/internal/config"
	"amazonia/pkg/logging"
	"amazonia/pkg/middleware"
	"amazonia/pkg/realtime"
)

type RealtimeController struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
}

func NewRealtimeController(hub *realtime.Hub, cfg *config.Config) *RealtimeController {
	isAllowed := middleware.OriginMatcher(cfg.CORS.AllowedOrigins)
	return &RealtimeController{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || isAllowed(origin)
			},
		},
	}
}

// Alerts godoc
// @Summary Live alert stream
// @Description Websocket; frames look like {"type":"alert","data":{...}}
// @Tags Alerts
// @Param token query string true "Access token"
// @Router /ws/alerts [get]
func (rc *RealtimeController) Alerts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	conn, err := rc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.Ctx(c.Request.Context()).Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	rc.hub.Serve(userID.String(), conn)
}
