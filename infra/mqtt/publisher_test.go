package mqtt

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"errors"
	"math/big"
	"os"
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenfleet/greenfleet/core/ledger"
	coremqtt "github.com/greenfleet/greenfleet/core/mqtt"
	"github.com/greenfleet/greenfleet/core/planner"
	"github.com/greenfleet/greenfleet/internal/eventbus"
)

func generateCert(t *testing.T) (certFile, keyFile, caFile string) {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tmpl := x509.Certificate{SerialNumber: big.NewInt(1), Subject: pkix.Name{CommonName: "test"}, NotBefore: time.Now(), NotAfter: time.Now().Add(time.Hour)}
	der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &priv.PublicKey, priv)
	require.NoError(t, err)
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(priv)})

	dir := t.TempDir()
	certFile = dir + "/cert.pem"
	keyFile = dir + "/key.pem"
	caFile = dir + "/ca.pem"
	require.NoError(t, os.WriteFile(certFile, certPEM, 0o600))
	require.NoError(t, os.WriteFile(keyFile, keyPEM, 0o600))
	require.NoError(t, os.WriteFile(caFile, certPEM, 0o600))
	return
}

func withMockClient(t *testing.T, mc *mockClient) {
	t.Helper()
	newMQTTClient = func(o *paho.ClientOptions) pahoClient { mc.opts = o; return mc }
	t.Cleanup(func() {
		newMQTTClient = func(opts *paho.ClientOptions) pahoClient { return paho.NewClient(opts) }
	})
}

func demoRun(t *testing.T) planner.Run {
	t.Helper()
	report, err := ledger.GenerateReport(planner.DemoPlan(), planner.DemoQuotas)
	require.NoError(t, err)
	return planner.Run{
		ID:          "run-1",
		CreatedAt:   time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Plan:        planner.DemoPlan(),
		Quotas:      planner.DemoQuotas,
		QuotaSource: "static",
		Report:      report,
	}
}

func TestLoadTLSConfig(t *testing.T) {
	cert, key, ca := generateCert(t)
	cfg := Config{UseTLS: true, ClientCert: cert, ClientKey: key, CABundle: ca}
	tlsCfg, err := cfg.LoadTLSConfig()
	require.NoError(t, err)
	assert.NotEmpty(t, tlsCfg.Certificates)
	assert.NotNil(t, tlsCfg.RootCAs)
}

func TestLoadTLSConfigMissingFiles(t *testing.T) {
	_, err := Config{UseTLS: true}.LoadTLSConfig()
	assert.Error(t, err)
}

func TestNewClientOptionsAuth(t *testing.T) {
	opts, err := NewClientOptions(Config{Broker: "tcp://localhost:1883", ClientID: "id", Username: "u", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, "u", opts.Username)
	assert.Equal(t, "p", opts.Password)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, Config{}.Validate(), "disabled config is always valid")
	assert.Error(t, Config{Enabled: true}.Validate())
	assert.Error(t, Config{Enabled: true, Broker: "tcp://b:1883", QoS: 3}.Validate())
	assert.Error(t, Config{Enabled: true, Broker: "tcp://b:1883", AuthMethod: "token"}.Validate())
	assert.NoError(t, Config{Enabled: true, Broker: "tcp://b:1883", QoS: 1}.Validate())
}

func TestTopic(t *testing.T) {
	cfg := Config{TopicPrefix: "fleet/ledger/"}
	assert.Equal(t, "fleet/ledger/runs/abc", cfg.Topic("abc"))
}

func TestPublishRunPayload(t *testing.T) {
	mc := &mockClient{connected: true}
	withMockClient(t, mc)
	pub, err := NewReportPublisher(Config{Enabled: true, Broker: "tcp://localhost:1883", QoS: 1})
	require.NoError(t, err)

	require.NoError(t, pub.PublishRun(demoRun(t)))
	require.Len(t, mc.published, 1)
	assert.Equal(t, "greenfleet/ledger/runs/run-1", mc.published[0].topic)
	assert.Equal(t, byte(1), mc.published[0].qos)

	var msg RunMessage
	require.NoError(t, json.Unmarshal(mc.published[0].payload, &msg))
	assert.Equal(t, "run-1", msg.RunID)
	assert.Equal(t, "2420000", msg.TotalBudget)
	assert.Len(t, msg.Years, 5)
	assert.Empty(t, msg.OverQuota)
}

func TestPublishRunRetries(t *testing.T) {
	mc := &mockClient{connected: true, publishErrs: []error{errors.New("net fail"), nil}}
	withMockClient(t, mc)
	pub, err := NewReportPublisher(Config{Enabled: true, Broker: "tcp://localhost:1883", MaxRetries: 1, BackoffMS: 1})
	require.NoError(t, err)
	var slept []time.Duration
	pub.sleep = func(d time.Duration) { slept = append(slept, d) }

	require.NoError(t, pub.PublishRun(demoRun(t)))
	assert.Len(t, mc.published, 2)
	assert.Equal(t, []time.Duration{time.Millisecond}, slept)
}

func TestPublishRunGivesUp(t *testing.T) {
	fail := errors.New("net fail")
	mc := &mockClient{connected: true, publishErrs: []error{fail, fail, fail}}
	withMockClient(t, mc)
	pub, err := NewReportPublisher(Config{Enabled: true, Broker: "tcp://localhost:1883", MaxRetries: 2, BackoffMS: 1})
	require.NoError(t, err)
	pub.sleep = func(time.Duration) {}

	err = pub.PublishRun(demoRun(t))
	require.ErrorIs(t, err, fail)
	assert.Len(t, mc.published, 3)
}

func TestPublishRunNotConnected(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)
	pub, err := NewReportPublisher(Config{Enabled: true, Broker: "tcp://localhost:1883"})
	require.NoError(t, err)
	assert.ErrorIs(t, pub.PublishRun(demoRun(t)), coremqtt.ErrNotConnected)
}

func TestNewReportPublisherConnectError(t *testing.T) {
	mc := &mockClient{connectErr: errors.New("refused")}
	withMockClient(t, mc)
	_, err := NewReportPublisher(Config{Enabled: true, Broker: "tcp://localhost:1883"})
	assert.ErrorContains(t, err, "refused")
}

func TestRunForwarder(t *testing.T) {
	bus := eventbus.NewTyped[planner.Run](4)
	pub := NewMockPublisher()
	ctx, cancel := context.WithCancel(context.Background())
	done := StartRunForwarder(ctx, bus, pub, nil)

	bus.Publish(demoRun(t))
	require.Eventually(t, func() bool { return len(pub.Runs()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "run-1", pub.Runs()[0].ID)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("forwarder did not stop")
	}
}

func TestRunForwarderStopsOnBusClose(t *testing.T) {
	bus := eventbus.NewTyped[planner.Run](1)
	pub := NewMockPublisher()
	pub.Err = errors.New("broker down")
	done := StartRunForwarder(context.Background(), bus, pub, nil)

	bus.Publish(demoRun(t))
	bus.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("forwarder did not stop")
	}
	assert.Empty(t, pub.Runs())
}

type published struct {
	topic   string
	qos     byte
	payload []byte
}

// mockClient implements paho.Client for tests.
type mockClient struct {
	mu          sync.Mutex
	opts        *paho.ClientOptions
	connected   bool
	connectErr  error
	published   []published
	publishErrs []error
}

func (m *mockClient) IsConnected() bool { return m.connected }
func (m *mockClient) Connect() paho.Token {
	if m.connectErr != nil {
		return &dummyToken{err: m.connectErr}
	}
	if m.opts != nil && m.opts.OnConnect != nil {
		m.opts.OnConnect(m)
	}
	return &dummyToken{}
}
func (m *mockClient) Disconnect(uint) { m.connected = false }
func (m *mockClient) Publish(topic string, qos byte, _ bool, payload interface{}) paho.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, _ := payload.([]byte)
	m.published = append(m.published, published{topic: topic, qos: qos, payload: b})
	if len(m.publishErrs) > 0 {
		err := m.publishErrs[0]
		m.publishErrs = m.publishErrs[1:]
		return &dummyToken{err: err}
	}
	return &dummyToken{}
}
func (m *mockClient) Subscribe(string, byte, paho.MessageHandler) paho.Token {
	return &dummyToken{}
}
func (m *mockClient) SubscribeMultiple(map[string]byte, paho.MessageHandler) paho.Token {
	return &dummyToken{}
}
func (m *mockClient) Unsubscribe(...string) paho.Token        { return &dummyToken{} }
func (m *mockClient) AddRoute(string, paho.MessageHandler)    {}
func (m *mockClient) OptionsReader() paho.ClientOptionsReader { return paho.ClientOptionsReader{} }
func (m *mockClient) IsConnectionOpen() bool                  { return m.connected }

type dummyToken struct{ err error }

func (d dummyToken) Wait() bool                     { return true }
func (d dummyToken) WaitTimeout(time.Duration) bool { return true }
func (d dummyToken) Done() <-chan struct{}          { ch := make(chan struct{}); close(ch); return ch }
func (d dummyToken) Error() error                   { return d.err }
