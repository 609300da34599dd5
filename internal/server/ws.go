package server

import (
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/gorilla/websocket"

	apperrors "github.com/matzehuels/classview/pkg/errors"
	"github.com/matzehuels/classview/pkg/hierarchy"
	"github.com/matzehuels/classview/pkg/interact"
	"github.com/matzehuels/classview/pkg/render"
)

// pointerReply answers one websocket pointer event. Edges holds the
// segments touching Node at its new position.
type pointerReply struct {
	Node  *render.SceneNode `json:"node,omitempty"`
	Edges []render.Segment  `json:"edges,omitempty"`
	Error *wsError          `json:"error,omitempty"`
}

type wsError struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
}

func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
}

// checkOrigin allows same-origin requests plus the configured origins.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if slices.Contains(s.opts.AllowedOrigins, "*") || slices.Contains(s.opts.AllowedOrigins, origin) {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// handlePointerWS streams pointer events for one session. Each event gets
// one reply; a dropped connection ends any drag in progress.
func (s *Server) handlePointerWS(w http.ResponseWriter, r *http.Request) {
	e, ok := s.session(w, r)
	if !ok {
		return
	}
	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "session", e.id, "error", err)
		return
	}
	defer conn.Close()
	defer e.view.Release()

	s.logger.Debug("pointer stream opened", "session", e.id)
	for {
		var ev interact.PointerEvent
		if err := conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("pointer stream error", "session", e.id, "error", err)
			}
			return
		}

		var reply pointerReply
		n, err := e.view.Pointer(ev)
		switch {
		case err != nil:
			code := apperrors.GetCode(err)
			if code == "" {
				code = apperrors.ErrCodeInternal
			}
			reply.Error = &wsError{Code: code, Message: apperrors.UserMessage(err)}
		case n != nil:
			e.view.Do(func(g *hierarchy.Graph, size hierarchy.Size, _ string) {
				sn := render.NewSceneNode(n, size)
				reply.Node = &sn
				reply.Edges = render.NodeSegments(g, size, n.ID)
			})
		}

		if err := conn.WriteJSON(reply); err != nil {
			s.logger.Warn("pointer stream write failed", "session", e.id, "error", err)
			return
		}
	}
}
