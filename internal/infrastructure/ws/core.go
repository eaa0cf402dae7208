package ws

import (
	"context"

	"github.com/usaidgithub/QuickShare/internal/domain"
	"github.com/usaidgithub/QuickShare/internal/infrastructure/registry"
	"go.uber.org/zap"
)

// Core is the presence and messaging broker. All registry mutations and
// all fan-outs funnel through its single loop, so every broadcast a
// given event produces reaches each room member in the order it was
// produced. The loop itself never touches the network: it only pushes
// into per-client buffered channels.
type Core struct {
	roomMgr    *RoomManager
	registry   *registry.Registry
	register   chan *Client
	unregister chan *Client
	broadcast  chan *WSMessage
	logger     *zap.SugaredLogger
}

func NewCore(reg *registry.Registry, roomMgr *RoomManager, logger *zap.SugaredLogger) *Core {
	return &Core{
		roomMgr:    roomMgr,
		registry:   reg,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *WSMessage, 256),
		logger:     logger,
	}
}

func (c *Core) Run(ctx context.Context) {
	for {
		select {
		case cl := <-c.register:
			c.handleJoin(cl)

		case cl := <-c.unregister:
			c.handleLeave(cl)

		case msg := <-c.broadcast:
			c.roomMgr.Broadcast(msg.RoomID, msg)

		case <-ctx.Done():
			return
		}
	}
}

func (c *Core) handleJoin(cl *Client) {
	c.roomMgr.AddClient(cl)

	members, displaced := c.registry.Join(cl.RoomID, cl.ID, cl.Username)
	if displaced != nil {
		// The connection was still listed elsewhere; tell that room
		c.notifyDeparture(displaced)
	}

	cl.Message <- NewJoinAcknowledged(cl.RoomID)
	c.roomMgr.Broadcast(cl.RoomID, NewMemberList(cl.RoomID, members))
	c.roomMgr.BroadcastExcept(cl.RoomID, cl.ID, NewUserJoined(cl.RoomID, domain.NewMember(cl.ID, cl.Username)))

	c.logger.Infow("member joined", "room", cl.RoomID, "client", cl.ID, "name", cl.Username)
}

func (c *Core) handleLeave(cl *Client) {
	departure := c.registry.Leave(cl.ID)
	c.roomMgr.RemoveClient(cl)

	if departure == nil {
		// Already left, or never joined: a successful no-op
		return
	}

	c.notifyDeparture(departure)

	c.logger.Infow("member left", "room", departure.RoomID, "client", cl.ID, "name", departure.Member.Name)
}

func (c *Core) notifyDeparture(dep *registry.Departure) {
	c.roomMgr.Broadcast(dep.RoomID, NewMemberList(dep.RoomID, dep.Remaining))
	c.roomMgr.Broadcast(dep.RoomID, NewUserLeft(dep.RoomID, dep.Member))
}

func (c *Core) Register() chan<- *Client {
	return c.register
}

func (c *Core) Unregister() chan<- *Client {
	return c.unregister
}

func (c *Core) Broadcast() chan<- *WSMessage {
	return c.broadcast
}
