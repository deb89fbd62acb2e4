package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log"
	"os"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Client manages the MQTT connection (low-level connection management only)
// For subscribing and publishing, use Subscriber and Publisher respectively
type Client struct {
	client    mqtt.Client
	config    ClientConfig
	connected atomic.Bool
}

// ClientConfig holds MQTT client configuration
type ClientConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string

	// Mutual TLS, used when all three paths are set (e.g. AWS IoT Core)
	CACertPath string
	CertPath   string
	KeyPath    string

	ConnectTimeout time.Duration

	// ConnectRetry keeps retrying the initial connection in the background
	// instead of failing NewClient
	ConnectRetry bool

	// OnConnect runs after every (re)connection, e.g. to restore subscriptions
	OnConnect func(mqtt.Client)
}

// NewClient creates a new MQTT client connection
func NewClient(config ClientConfig) (*Client, error) {
	if config.ConnectTimeout <= 0 {
		config.ConnectTimeout = 10 * time.Second
	}

	c := &Client{config: config}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(config.Broker)
	opts.SetClientID(config.ClientID)
	opts.SetUsername(config.Username)
	opts.SetPassword(config.Password)
	opts.SetDefaultPublishHandler(messagePubHandler)
	opts.SetOnConnectHandler(c.connectHandler)
	opts.SetConnectionLostHandler(c.connectLostHandler)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetConnectTimeout(config.ConnectTimeout)

	if config.CACertPath != "" && config.CertPath != "" && config.KeyPath != "" {
		tlsConfig, err := newTLSConfig(config.CACertPath, config.CertPath, config.KeyPath)
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsConfig)
	}

	if config.ConnectRetry {
		opts.SetConnectRetry(true)
		opts.SetConnectRetryInterval(5 * time.Second)
	}

	c.client = mqtt.NewClient(opts)

	if config.ConnectRetry {
		c.client.Connect()
		log.Println("MQTT Client: Connecting in background to broker:", config.Broker)
		return c, nil
	}

	if token := c.client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	log.Println("MQTT Client: Connected to broker:", config.Broker)

	return c, nil
}

// GetNativeClient returns the underlying paho MQTT client
// This is used by Subscriber and Publisher
func (c *Client) GetNativeClient() mqtt.Client {
	return c.client
}

// IsConnected returns whether the client is currently connected
func (c *Client) IsConnected() bool {
	return c.connected.Load() && c.client.IsConnected()
}

// Close closes the MQTT client connection
func (c *Client) Close() {
	c.client.Disconnect(250)
	c.connected.Store(false)
	log.Println("MQTT Client: Disconnected")
}

func newTLSConfig(caPath, certPath, keyPath string) (*tls.Config, error) {
	caPEM, err := os.ReadFile(caPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA certificate: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return nil, fmt.Errorf("failed to parse CA certificate %s", caPath)
	}

	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load client certificate: %w", err)
	}

	return &tls.Config{
		RootCAs:      pool,
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// Connection event handlers
var messagePubHandler mqtt.MessageHandler = func(client mqtt.Client, msg mqtt.Message) {
	log.Printf("MQTT: Received message from topic: %s", msg.Topic())
}

func (c *Client) connectHandler(client mqtt.Client) {
	c.connected.Store(true)
	log.Println("MQTT: Connection established")
	if c.config.OnConnect != nil {
		c.config.OnConnect(client)
	}
}

func (c *Client) connectLostHandler(client mqtt.Client, err error) {
	c.connected.Store(false)
	log.Printf("MQTT: Connection lost: %v", err)
}
