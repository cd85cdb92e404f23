package model

import "errors"

var (
	// idempotency key (atau checkout key) sudah tercatat
	ErrDuplicateKey = errors.New("attendance: idempotency key already recorded")
	// karyawan sudah punya sesi terbuka di tanggal yang sama
	ErrOpenSessionExists = errors.New("attendance: open session already exists")
	// sesi sudah ditutup oleh proses lain
	ErrSessionClosed = errors.New("attendance: session already closed")
)
