// file: internals/features/attendance/records/readers/tap_listener.go
package readers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"kantorku_backend/internals/features/attendance/records/service"
)

// Reader NFC publish tap ke attendance/readers/{reader_id}/tap,
// hasil toggle dibalas ke attendance/readers/{reader_id}/result.

type Toggler interface {
	Toggle(ctx context.Context, in service.ToggleInput) (*service.ToggleResult, error)
}

type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

type Config struct {
	BrokerURL string
	ClientID  string
	Username  string
	Password  string
	Topic     string // contoh attendance/readers/+/tap
	Timeout   time.Duration
}

type TapMessage struct {
	TagUID         string `json:"tag_uid"`
	EmployeeID     *int64 `json:"employee_id,omitempty"`
	Location       string `json:"location,omitempty"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

type ResultMessage struct {
	ReaderID        string `json:"reader_id"`
	Success         bool   `json:"success"`
	Action          string `json:"action,omitempty"`
	Replayed        bool   `json:"replayed,omitempty"`
	EmployeeID      int64  `json:"employee_id,omitempty"`
	EmployeeName    string `json:"employee_name,omitempty"`
	DurationMinutes *int   `json:"duration_minutes,omitempty"`
	ErrorCode       string `json:"error_code,omitempty"`
	Message         string `json:"message,omitempty"`
	Timestamp       int64  `json:"timestamp"`
}

type Listener struct {
	Client  mqtt.Client
	Toggler Toggler
	cfg     Config
	pub     publisher
	sleep   func(time.Duration)
}

func (l *Listener) backoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * time.Second
}

func NewListener(cfg Config, toggler Toggler) *Listener {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	l := &Listener{Toggler: toggler, cfg: cfg, sleep: time.Sleep}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.BrokerURL)
	// client id unik per instance, broker memutus koneksi lama kalau id bentrok
	opts.SetClientID(fmt.Sprintf("%s-%s", cfg.ClientID, uuid.NewString()[:8]))
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(30 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetCleanSession(true)
	opts.SetOrderMatters(false)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Printf("[MQTT] koneksi putus: %v", err)
	})
	// subscribe ulang setiap (re)connect karena clean session
	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		log.Printf("[MQTT] terhubung ke %s", cfg.BrokerURL)
		if err := l.Subscribe(); err != nil {
			log.Printf("[MQTT] %v", err)
		}
	})

	l.Client = mqtt.NewClient(opts)
	l.pub = l.Client
	return l
}

// Connect: retry dengan backoff 1s, 2s, 4s ...
func (l *Listener) Connect(maxRetries int) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		token := l.Client.Connect()
		if token.WaitTimeout(5*time.Second) && token.Error() == nil {
			return nil
		}
		err = token.Error()
		if err == nil {
			err = errors.New("connect timeout")
		}
		if i == maxRetries-1 {
			log.Printf("[MQTT] connect %d/%d gagal: %v", i+1, maxRetries, err)
			break
		}
		backoff := l.backoff(i)
		log.Printf("[MQTT] connect %d/%d gagal: %v, retry dalam %v", i+1, maxRetries, err, backoff)
		l.sleep(backoff)
	}
	return fmt.Errorf("mqtt connect %s: %w", l.cfg.BrokerURL, err)
}

func (l *Listener) Subscribe() error {
	token := l.Client.Subscribe(l.cfg.Topic, 1, l.handle)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe %s: %w", l.cfg.Topic, token.Error())
	}
	log.Printf("[MQTT] subscribe %s", l.cfg.Topic)
	return nil
}

func (l *Listener) Disconnect() {
	if l.Client != nil && l.Client.IsConnected() {
		l.Client.Disconnect(250)
	}
}

func (l *Listener) handle(_ mqtt.Client, msg mqtt.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), l.cfg.Timeout)
	defer cancel()

	res := l.Process(ctx, msg.Topic(), msg.Payload())
	if res.ReaderID == "" {
		log.Printf("[MQTT] topic tanpa reader id: %s", msg.Topic())
		return
	}
	l.reply(res)
}

func (l *Listener) reply(res ResultMessage) {
	payload, err := sonic.Marshal(res)
	if err != nil {
		log.Printf("[MQTT] encode result: %v", err)
		return
	}
	token := l.pub.Publish(ResultTopic(res.ReaderID), 1, false, payload)
	if token.WaitTimeout(5*time.Second) && token.Error() != nil {
		log.Printf("[MQTT] publish result ke %s gagal: %v", res.ReaderID, token.Error())
	}
}

// Process: decode tap → toggle → ResultMessage. Tidak menyentuh koneksi MQTT.
func (l *Listener) Process(ctx context.Context, topic string, payload []byte) ResultMessage {
	readerID := ReaderIDFromTopic(topic)
	res := ResultMessage{ReaderID: readerID, Timestamp: time.Now().UnixMilli()}
	if readerID == "" {
		res.ErrorCode = service.CodeInvalidInput
		res.Message = "Topic tanpa reader id"
		return res
	}

	var tap TapMessage
	if err := sonic.Unmarshal(payload, &tap); err != nil {
		res.ErrorCode = service.CodeInvalidInput
		res.Message = "Payload tap tidak valid"
		return res
	}

	out, err := l.Toggler.Toggle(ctx, service.ToggleInput{
		TagUID:         tap.TagUID,
		EmployeeID:     tap.EmployeeID,
		ReaderID:       readerID,
		Location:       tap.Location,
		IdempotencyKey: tap.IdempotencyKey,
	})
	if err != nil {
		var te *service.ToggleError
		if errors.As(err, &te) {
			res.ErrorCode, res.Message = te.Code, te.Message
		} else {
			res.ErrorCode, res.Message = service.CodeInternal, "Gagal memproses absensi"
		}
		if res.ErrorCode == service.CodeInternal {
			log.Printf("[MQTT] toggle reader=%s: %v", readerID, err)
		}
		return res
	}

	res.Success = true
	res.Action = out.Action
	res.Replayed = out.Replayed
	if out.Employee != nil {
		res.EmployeeID = out.Employee.EmployeeID
		res.EmployeeName = out.Employee.EmployeeName
	}
	if out.Record != nil {
		res.DurationMinutes = out.Record.AttendanceDuration
	}
	return res
}

// ReaderIDFromTopic: ".../{reader_id}/tap" → reader_id.
func ReaderIDFromTopic(topic string) string {
	parts := strings.Split(strings.Trim(topic, "/"), "/")
	if len(parts) < 2 || parts[len(parts)-1] != "tap" {
		return ""
	}
	return parts[len(parts)-2]
}

func ResultTopic(readerID string) string {
	return "attendance/readers/" + readerID + "/result"
}
