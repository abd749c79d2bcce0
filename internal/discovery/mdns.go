// ABOUTME: mDNS advertisement and lookup of cuedeck remote surfaces
// ABOUTME: Decks advertise _cuedeck._tcp with version and websocket path in TXT
package discovery

import (
	"context"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"github.com/hashicorp/mdns"

	"github.com/Resonate-Protocol/cuedeck/internal/version"
)

// ServiceType is the DNS-SD service type decks advertise under
const ServiceType = "_cuedeck._tcp"

// Config holds advertisement configuration
type Config struct {
	Name string
	Port int
	Path string
}

// Advertiser publishes one deck on the local network
type Advertiser struct {
	config Config
	ctx    context.Context
	cancel context.CancelFunc
}

// Deck describes a discovered deck
type Deck struct {
	Name    string
	Host    string
	Port    int
	Path    string
	Version string
}

// URL returns the websocket URL of the deck's remote surface
func (d Deck) URL() string {
	return fmt.Sprintf("ws://%s%s", net.JoinHostPort(d.Host, fmt.Sprint(d.Port)), d.Path)
}

// NewAdvertiser creates an advertiser; nothing is published until Start
func NewAdvertiser(config Config) *Advertiser {
	if config.Path == "" {
		config.Path = "/cuedeck"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Advertiser{config: config, ctx: ctx, cancel: cancel}
}

// TXT returns the TXT records published with the service
func (a *Advertiser) TXT() []string {
	return []string{
		"path=" + a.config.Path,
		"version=" + version.Version,
		"product=" + version.Product,
	}
}

// Start publishes the service until Stop is called
func (a *Advertiser) Start() error {
	ips, err := localIPs()
	if err != nil {
		return fmt.Errorf("failed to get local IPs: %w", err)
	}

	service, err := mdns.NewMDNSService(a.config.Name, ServiceType, "", "", a.config.Port, ips, a.TXT())
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return fmt.Errorf("failed to create mdns server: %w", err)
	}

	log.Printf("Advertising %s as %s on port %d", a.config.Name, ServiceType, a.config.Port)

	go func() {
		<-a.ctx.Done()
		server.Shutdown()
	}()

	return nil
}

// Stop withdraws the advertisement
func (a *Advertiser) Stop() {
	a.cancel()
}

// Lookup queries the network once and returns the decks that answered
func Lookup(ctx context.Context, timeout time.Duration) ([]Deck, error) {
	entries := make(chan *mdns.ServiceEntry, 16)
	done := make(chan []Deck)

	go func() {
		var decks []Deck
		for entry := range entries {
			decks = append(decks, deckFromEntry(entry))
		}
		done <- decks
	}()

	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true

	err := mdns.QueryContext(ctx, params)
	close(entries)
	decks := <-done
	if err != nil {
		return decks, fmt.Errorf("mdns query failed: %w", err)
	}
	return decks, nil
}

func deckFromEntry(entry *mdns.ServiceEntry) Deck {
	d := Deck{
		Name: strings.TrimSuffix(entry.Name, "."+ServiceType+".local."),
		Port: entry.Port,
		Path: "/cuedeck",
	}
	if entry.AddrV4 != nil {
		d.Host = entry.AddrV4.String()
	} else if entry.AddrV6 != nil {
		d.Host = entry.AddrV6.String()
	} else {
		d.Host = strings.TrimSuffix(entry.Host, ".")
	}
	for _, field := range entry.InfoFields {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		switch key {
		case "path":
			d.Path = value
		case "version":
			d.Version = value
		}
	}
	return d
}

// localIPs returns non-loopback IPv4 addresses of interfaces that are up
func localIPs() ([]net.IP, error) {
	var ips []net.IP

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
				ips = append(ips, ipnet.IP)
			}
		}
	}

	return ips, nil
}
