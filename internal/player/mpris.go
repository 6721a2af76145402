package player

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ripcast/internal/models"
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/prop"
)

const (
	mprisBusName     = "org.mpris.MediaPlayer2.ripcast"
	mprisPath        = "/org/mpris/MediaPlayer2"
	mprisBaseIface   = "org.mpris.MediaPlayer2"
	mprisPlayerIface = "org.mpris.MediaPlayer2.Player"
)

// Publisher exports now-playing metadata on the session bus. When no bus is
// available (headless machines, containers) every method is a no-op.
type Publisher struct {
	conn    *dbus.Conn
	props   *prop.Properties
	logger  *log.Logger
	trackNo int
}

// NewPublisher connects to the session bus and claims the MPRIS name.
// Failures are logged at debug level and leave the publisher disabled.
func NewPublisher(logger *log.Logger) *Publisher {
	if logger == nil {
		logger = log.Default()
	}
	p := &Publisher{logger: logger}

	conn, err := dbus.SessionBus()
	if err != nil {
		logger.Debug("session bus unavailable, media controls disabled", "error", err)
		return p
	}

	reply, err := conn.RequestName(mprisBusName, dbus.NameFlagReplaceExisting)
	if err != nil || reply != dbus.RequestNameReplyPrimaryOwner {
		logger.Debug("could not claim MPRIS bus name", "error", err, "reply", reply)
		conn.Close()
		return p
	}

	spec := map[string]map[string]*prop.Prop{
		mprisBaseIface: {
			"Identity":            {Value: "ripcast", Writable: false, Emit: prop.EmitTrue},
			"CanQuit":             {Value: false, Writable: false, Emit: prop.EmitFalse},
			"CanRaise":            {Value: false, Writable: false, Emit: prop.EmitFalse},
			"HasTrackList":        {Value: false, Writable: false, Emit: prop.EmitFalse},
			"SupportedUriSchemes": {Value: []string{}, Writable: false, Emit: prop.EmitFalse},
			"SupportedMimeTypes":  {Value: []string{}, Writable: false, Emit: prop.EmitFalse},
		},
		mprisPlayerIface: {
			"PlaybackStatus": {Value: "Playing", Writable: false, Emit: prop.EmitTrue},
			"Metadata":       {Value: map[string]dbus.Variant{}, Writable: false, Emit: prop.EmitTrue},
			"CanPlay":        {Value: false, Writable: false, Emit: prop.EmitFalse},
			"CanPause":       {Value: false, Writable: false, Emit: prop.EmitFalse},
			"CanSeek":        {Value: false, Writable: false, Emit: prop.EmitFalse},
			"CanControl":     {Value: false, Writable: false, Emit: prop.EmitFalse},
		},
	}

	props, err := prop.Export(conn, mprisPath, spec)
	if err != nil {
		logger.Debug("failed to export MPRIS properties", "error", err)
		conn.Close()
		return p
	}

	p.conn = conn
	p.props = props
	return p
}

// Enabled reports whether the publisher holds the bus name.
func (p *Publisher) Enabled() bool {
	return p.props != nil
}

// Update publishes a track change. artURL may be empty.
func (p *Publisher) Update(np models.NowPlaying, artURL string) {
	if p.props == nil {
		return
	}

	p.trackNo++
	metadata := map[string]dbus.Variant{
		"mpris:trackid": dbus.MakeVariant(dbus.ObjectPath(fmt.Sprintf("/org/ripcast/track/%d", p.trackNo))),
		"xesam:title":   dbus.MakeVariant(np.DisplayTitle()),
		"xesam:artist":  dbus.MakeVariant([]string{np.DisplayArtist()}),
	}
	if np.Album != "" {
		metadata["xesam:album"] = dbus.MakeVariant(np.Album)
	}
	if artURL != "" {
		metadata["mpris:artUrl"] = dbus.MakeVariant(artURL)
	}

	if err := p.props.Set(mprisPlayerIface, "Metadata", dbus.MakeVariant(metadata)); err != nil {
		p.logger.Debug("failed to publish metadata", "error", err)
	}
}

// Close releases the bus name and drops the connection.
func (p *Publisher) Close() {
	if p.conn == nil {
		return
	}
	p.conn.ReleaseName(mprisBusName)
	p.conn.Close()
	p.conn = nil
	p.props = nil
}
