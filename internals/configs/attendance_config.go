// file: internals/configs/attendance_config.go
package configs

import (
	"strings"
	"time"
)

// AttendanceConfig: semua knob untuk modul absensi (rekonsiliasi, toggle, rekap).
type AttendanceConfig struct {
	Timezone   string // contoh "Asia/Jakarta"
	LateCutoff string // "HH:MM[:SS]", default 09:30

	ReconcileCron       string
	ReconcileErrorLimit int
	ReconcileSource     string // redis | http
	ReconcileRedisKey   string
	ReconcileHTTPURL    string
	ReconcileTimeout    time.Duration

	CloseDayCron string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MQTTEnabled   bool
	MQTTBrokerURL string
	MQTTClientID  string
	MQTTUsername  string
	MQTTPassword  string
	MQTTTopic     string
}

func LoadAttendanceConfig() AttendanceConfig {
	return AttendanceConfig{
		Timezone:   GetEnv("ATTENDANCE_TIMEZONE", "Asia/Jakarta"),
		LateCutoff: GetEnv("ATTENDANCE_LATE_CUTOFF", "09:30"),

		ReconcileCron:       GetEnv("RECONCILE_CRON", "*/1 * * * *"),
		ReconcileErrorLimit: GetEnvInt("RECONCILE_ERROR_LIMIT", 10),
		ReconcileSource:     strings.ToLower(GetEnv("RECONCILE_SOURCE", "redis")),
		ReconcileRedisKey:   GetEnv("RECONCILE_REDIS_KEY", "attendance:raw"),
		ReconcileHTTPURL:    GetEnv("RECONCILE_HTTP_URL"),
		ReconcileTimeout:    GetEnvDuration("RECONCILE_TIMEOUT", 50*time.Second),

		CloseDayCron: GetEnv("CLOSE_DAY_CRON", "5 0 * * *"),

		RedisAddr:     GetEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: GetEnv("REDIS_PASSWORD"),
		RedisDB:       GetEnvInt("REDIS_DB", 0),

		MQTTEnabled:   GetEnvBool("MQTT_ENABLED", false),
		MQTTBrokerURL: GetEnv("MQTT_BROKER_URL", "tcp://localhost:1883"),
		MQTTClientID:  GetEnv("MQTT_CLIENT_ID", "kantorku-attendance"),
		MQTTUsername:  GetEnv("MQTT_USERNAME"),
		MQTTPassword:  GetEnv("MQTT_PASSWORD"),
		MQTTTopic:     GetEnv("MQTT_TAP_TOPIC", "attendance/readers/+/tap"),
	}
}
