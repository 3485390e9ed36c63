package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/dgrijalva/jwt-go"

	"github.com/darasahq/darasa/core/access"
	"github.com/darasahq/darasa/core/user"
)

func Test_userApi_login(t *testing.T) {
	app := setup(t, "growth")

	createUser(t, "Admin", "admin1", "admin@test.cd", "LePassword007!", access.RoleAdmin, true)
	createUser(t, "Gone", "gone1", "gone@test.cd", "LePassword007!", access.RoleStudent, false)

	loginBody := func(uname, pwd string) []byte {
		return marchallObj(t, map[string]string{"username": uname, "password": pwd})
	}

	tests := []httpTest{
		{
			name: "login ok", body: loginBody("admin1", "LePassword007!"),
			wantCode: http.StatusOK,
		},
		{
			name: "login by email", body: loginBody("admin@test.cd", "LePassword007!"),
			wantCode: http.StatusOK,
		},
		{
			name: "wrong password", body: loginBody("admin1", "nope"),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "unknown account", body: loginBody("ghost", "nope"),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "deactivated account", body: loginBody("gone1", "LePassword007!"),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			app.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %v; want %v; body %v", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantData != nil {
				if ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData); err != nil || !ok {
					t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
				}
				return
			}

			// a successful login yields a token the API accepts
			var res struct {
				Token string `json:"token"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil || res.Token == "" {
				t.Fatalf("no token in response: %v", rec.Body.String())
			}
			sreq, srec := newAuthRequest(http.MethodGet, "/v1/session", res.Token)
			app.ServeHTTP(srec, sreq)
			if srec.Code != http.StatusOK {
				t.Errorf("session code = %v; want %v", srec.Code, http.StatusOK)
			}
		})
	}
}

func Test_userApi_query(t *testing.T) {
	app := setup(t, "growth")

	admin := createUser(t, "Admin", "admin1", "admin@test.cd", "", access.RoleAdmin, true)
	instr := createUser(t, "Instructor", "instr1", "i1@test.cd", "", access.RoleInstructor, true)
	stu := createUser(t, "Student", "student1", "s1@test.cd", "", access.RoleStudent, true)

	adminToken := getToken(t, admin, access.TierGrowth)

	tests := []httpTest{
		{
			name: "Auth required", path: "/v1/users",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "users.manage required", path: "/v1/users", token: getToken(t, instr, access.TierGrowth),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "Get all", path: "/v1/users", token: adminToken,
			wantCode: http.StatusOK, wantData: pageData(t, admin, instr, stu),
		},
		{
			name: "search", path: "/v1/users?search=instr", token: adminToken,
			wantCode: http.StatusOK, wantData: pageData(t, instr),
		},
		{
			name: "role filter", path: "/v1/users?role=student", token: adminToken,
			wantCode: http.StatusOK, wantData: pageData(t, stu),
		},
		{
			name: "unrecognized filter key rejected", path: "/v1/users?usernmae=admin1", token: adminToken,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"usernmae": "unrecognized filter"}),
		},
		{
			name: "ordering by a listed column", path: "/v1/users?ordering=-created_at", token: adminToken,
			wantCode: http.StatusOK, wantData: pageData(t, admin, instr, stu),
		},
		{
			name: "ordering by an unlisted column rejected", path: "/v1/users?ordering=password_hash", token: adminToken,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"ordering": `cannot order by "password_hash"`}),
		},
		{
			name: "every field of a compound ordering is checked", path: "/v1/users?ordering=-created_at,secret", token: adminToken,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"ordering": `cannot order by "secret"`}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_create(t *testing.T) {
	app := setup(t, "growth")

	admin := createUser(t, "Admin", "admin1", "admin@test.cd", "", access.RoleAdmin, true)
	instr := createUser(t, "Instructor", "instr1", "i1@test.cd", "", access.RoleInstructor, true)

	newUserBody := func(role access.Role) []byte {
		return marchallObj(t, map[string]string{
			"name":             "New Guy",
			"username":         "newguy1",
			"email":            "newguy@test.cd",
			"role":             string(role),
			"password":         "LePassword007!",
			"password_confirm": "LePassword007!",
		})
	}

	tests := []httpTest{
		{
			name: "users.manage required", body: newUserBody(access.RoleStudent),
			token:    getToken(t, instr, access.TierGrowth),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "admin creates", body: newUserBody(access.RoleStudent),
			token:    getToken(t, admin, access.TierGrowth),
			wantCode: http.StatusCreated,
		},
		{
			name: "unknown role rejected", body: newUserBody("superadmin"),
			token:    getToken(t, admin, access.TierGrowth),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", tt.token, tt.body)
			app.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Errorf("failed! code = %v; wantCode %v; body %v", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantData != nil {
				if ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData); err != nil || !ok {
					t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
				}
			}
		})
	}
}

func Test_userApi_registerThenLogin(t *testing.T) {
	app := setup(t, "growth")
	admin := createUser(t, "Admin", "admin1", "admin@test.cd", "", access.RoleAdmin, true)

	body := marchallObj(t, map[string]string{
		"name":             "New Instructor",
		"username":         "newinstr1",
		"email":            "newinstr@test.cd",
		"role":             "instructor",
		"password":         "LePassword007!",
		"password_confirm": "LePassword007!",
	})
	req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", getToken(t, admin, access.TierGrowth), body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %v; want %v; body %v", rec.Code, http.StatusCreated, rec.Body.String())
	}

	// the account belongs to the creating admin's organization
	var created user.User
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding created user: %v", err)
	}
	if created.OrgID != orgRec.ID {
		t.Fatalf("created org_id = %q; want %q", created.OrgID, orgRec.ID)
	}

	// and can sign in right away
	lreq, lrec := newRequest(http.MethodPost, "/v1/users/login",
		marchallObj(t, map[string]string{"username": "newinstr1", "password": "LePassword007!"}))
	app.ServeHTTP(lrec, lreq)
	if lrec.Code != http.StatusOK {
		t.Fatalf("login code = %v; want %v; body %v", lrec.Code, http.StatusOK, lrec.Body.String())
	}
	var res struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(lrec.Body.Bytes(), &res); err != nil || res.Token == "" {
		t.Fatalf("no token in response: %v", lrec.Body.String())
	}
	sreq, srec := newAuthRequest(http.MethodGet, "/v1/session", res.Token)
	app.ServeHTTP(srec, sreq)
	if srec.Code != http.StatusOK {
		t.Errorf("session code = %v; want %v; body %v", srec.Code, http.StatusOK, srec.Body.String())
	}
}

func Test_userApi_refreshToken(t *testing.T) {
	app := setup(t, "growth")
	instr := createUser(t, "Instructor", "instr1", "i1@test.cd", "", access.RoleInstructor, true)

	// the old token carries a tier the organization has since outgrown
	req, rec := newAuthRequest(http.MethodPost, "/v1/users/token-refresh", getToken(t, instr, access.TierCore))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; want %v; body %v", rec.Code, http.StatusOK, rec.Body.String())
	}

	var res struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil || res.Token == "" {
		t.Fatalf("no token in response: %v", rec.Body.String())
	}

	// the refreshed token reflects the organization's current plan
	tok, err := jwt.Parse(res.Token, func(*jwt.Token) (interface{}, error) { return conf.SecretKey, nil })
	if err != nil {
		t.Fatalf("parsing refreshed token: %v", err)
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("unexpected claims type %T", tok.Claims)
	}
	if tier := claims["tier"]; tier != string(access.TierGrowth) {
		t.Errorf("tier = %v; want %v", tier, access.TierGrowth)
	}
}

func Test_userApi_passwordReset(t *testing.T) {
	app := setup(t, "growth")
	createUser(t, "Instructor", "instr1", "i1@test.cd", "", access.RoleInstructor, true)

	// the response never reveals whether the account exists
	for _, email := range []string{"i1@test.cd", "ghost@test.cd"} {
		req, rec := newRequest(http.MethodPost, "/v1/users/password-reset", marchallObj(t, map[string]string{"email": email}))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("code = %v; want %v; body %v", rec.Code, http.StatusOK, rec.Body.String())
		}
	}
}
