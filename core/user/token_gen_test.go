package user

import (
	"testing"
	"time"
)

func TestMakeVerifyToken(t *testing.T) {
	secret := []byte("secret")
	timeout := 3 * 24 * time.Hour

	now := time.Now()
	active := true
	usr := User{
		ID:        "c9b1f0a2-77aa-4f86-b4b2-2bd396d9a8be",
		Name:      "T",
		Username:  "t",
		Email:     "t@test.test",
		IsActive:  &active,
		CreatedAt: now,
		UpdatedAt: now,
		LastLogin: now,
	}
	_ = usr.SetPassword("pwd")

	validToken, err := MakeToken(usr, secret)
	if err != nil {
		t.Fatalf("MakeToken() failed: %v", err)
	}

	// generate an expired token
	dayLate := timeout + (24 * time.Hour)
	NowFunc = func() time.Time { return time.Now().Add(-dayLate) }
	expiredToken, err := MakeToken(usr, secret)
	if err != nil {
		t.Fatalf("MakeToken() failed: %v", err)
	}
	NowFunc = time.Now // reset

	tests := []struct {
		name    string
		usr     User
		token   string
		wantErr error
	}{
		{name: "no token", usr: usr, wantErr: errInvalidToken},
		{name: "invalid parts len", usr: usr, token: "lmaooolol", wantErr: errInvalidToken},
		{name: "invalid base32", usr: usr, token: "hahaha-sigsig-sig", wantErr: errInvalidToken},
		{name: "invalid timestamp", usr: usr, token: "NRXWY-sigsig-sig", wantErr: errInvalidToken},
		{name: "invalid token", usr: usr, token: "HE4TS-sigsig-sig", wantErr: errInvalidToken},
		{name: "expired token", usr: usr, token: expiredToken, wantErr: errTokenExpired},
		{name: "valid token", usr: usr, token: validToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := verifyToken(tt.usr, tt.token, secret, timeout); err != tt.wantErr {
				t.Errorf("verifyToken() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestVerifyToken_invalidatedByUse(t *testing.T) {
	secret := []byte("secret")
	timeout := 3 * 24 * time.Hour

	usr := User{ID: "u1", Email: "t@test.test"}
	_ = usr.SetPassword("Old#pass1")

	token, err := MakeToken(usr, secret)
	if err != nil {
		t.Fatalf("MakeToken() failed: %v", err)
	}
	if err := verifyToken(usr, token, secret, timeout); err != nil {
		t.Fatalf("verifyToken() failed: %v", err)
	}

	// changing the password invalidates outstanding tokens
	_ = usr.SetPassword("New#pass1")
	if err := verifyToken(usr, token, secret, timeout); err != errInvalidToken {
		t.Errorf("verifyToken() error = %v, wantErr %v", err, errInvalidToken)
	}
}
