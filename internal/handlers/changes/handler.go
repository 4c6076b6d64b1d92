package changes

import (
	"concierge/config"
	"concierge/infras/otel"
	bookingModel "concierge/internal/domains/booking/model"
	requestModel "concierge/internal/domains/request/model"
	staffModel "concierge/internal/domains/staff/model"
	"concierge/shared/changefeed"
	"concierge/shared/constant"
	"concierge/shared/failure"
	"concierge/shared/metrics"
	"concierge/transport/http/response"
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	readLimit    = 512
)

// Tables are the tables a client may watch.
var Tables = []string{requestModel.TableName, bookingModel.TableName, staffModel.TableName}

// Message is written to the socket once per change.
type Message struct {
	Table string `json:"table"`
	Event string `json:"event"`
}

type Handler struct {
	feed     changefeed.Feed
	metrics  *metrics.Metrics
	upgrader websocket.Upgrader
	otel     otel.Otel
}

func New(feed changefeed.Feed, metrics *metrics.Metrics, cfg *config.Config, otel otel.Otel) Handler {
	return Handler{
		feed:    feed,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(cfg),
		},
		otel: otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/changes", handler.StreamChanges)
}

// StreamChanges upgrades to a websocket that signals changes to the watched tables.
// @Summary Watch tables for changes
// @Description Upgrades to a websocket. Every change to a watched table sends {"table":"requests","event":"changed"}. Browsers pass the token as access_token.
// @Tags Changes
// @Param tables query string false "Comma separated tables to watch (requests, bookings, staff_users). Defaults to all."
// @Param access_token query string false "Access token for clients that cannot set headers"
// @Success 101 "Switching Protocols"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Router /v1/changes [get]
// @Security BearerAuth
func (handler *Handler) StreamChanges(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".StreamChanges")
	defer scope.End()

	tables, err := ParseTables(r.URL.Query().Get(constant.RequestParamTables))
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	// subscribe first so a failure can still be answered over plain HTTP
	sub, err := handler.feed.Subscribe(ctx, tables...)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to subscribe to changes")

		response.WithError(w, err)

		return
	}
	defer sub.Close()

	conn, err := handler.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already answered the client
		log.Warn().Err(err).Msg("failed to upgrade change feed connection")

		return
	}
	defer conn.Close()

	handler.metrics.FeedConnected()
	defer handler.metrics.FeedDisconnected()

	scope.AddEvent("Change feed opened for " + strings.Join(tables, ","))

	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	defer cancel()

	go readPump(conn, cancel)

	writePump(ctx, conn, sub)
}

// readPump discards client messages and keeps the read deadline alive on pongs.
// It cancels the stream when the client goes away.
func readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("change feed connection closed unexpectedly")
			}

			return
		}
	}
}

func writePump(ctx context.Context, conn *websocket.Conn, sub changefeed.Subscription) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))

			return
		case table, ok := <-sub.Changes():
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))

				return
			}

			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(Message{Table: table, Event: changefeed.EventChanged}); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ParseTables reads the comma separated tables parameter. An empty value watches every table.
func ParseTables(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return slices.Clone(Tables), nil
	}

	var tables []string

	for table := range strings.SplitSeq(raw, ",") {
		table = strings.TrimSpace(table)
		if table == "" || slices.Contains(tables, table) {
			continue
		}

		if !slices.Contains(Tables, table) {
			return nil, failure.BadRequestFromString("unknown table: " + table)
		}

		tables = append(tables, table)
	}

	if len(tables) == 0 {
		return slices.Clone(Tables), nil
	}

	return tables, nil
}

// originChecker follows the CORS settings. With CORS disabled only same-origin upgrades pass.
func originChecker(cfg *config.Config) func(r *http.Request) bool {
	cors := cfg.App.CORS

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}

		if !cors.Enable {
			return strings.HasSuffix(origin, "://"+r.Host)
		}

		return slices.Contains(cors.AllowedOrigins, constant.Asterix) || slices.Contains(cors.AllowedOrigins, origin)
	}
}
