package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/darasahq/darasa/core/access"
)

type navPage struct {
	Data  []access.RouteItem `json:"data"`
	Count int                `json:"count"`
}

func decodeNav(t *testing.T, body []byte) navPage {
	t.Helper()

	var page navPage
	if err := json.Unmarshal(body, &page); err != nil {
		t.Fatalf("decoding nav response: %v", err)
	}
	return page
}

func navPaths(page navPage) []string {
	paths := make([]string, 0, len(page.Data))
	for _, item := range page.Data {
		paths = append(paths, item.Path)
	}
	return paths
}

func Test_navApi_nav(t *testing.T) {
	t.Run("admin on enterprise plan with attendance", func(t *testing.T) {
		app := setup(t, "enterprise", "attendance")
		admin := createUser(t, "Admin", "admin1", "admin@test.cd", "", access.RoleAdmin, true)

		req, rec := newAuthRequest(http.MethodGet, "/v1/nav", getToken(t, admin, access.TierEnterprise))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v", rec.Code, http.StatusOK)
		}

		page := decodeNav(t, rec.Body.Bytes())
		want := []string{"/dashboard", "/students", "/courses", "/attendance", "/reports", "/admissions", "/settings", "/profile"}
		got := navPaths(page)
		if len(got) != len(want) {
			t.Fatalf("paths = %v; want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("paths = %v; want %v", got, want)
			}
		}

		// full settings tree at enterprise
		for _, item := range page.Data {
			if item.Path == "/settings" && len(item.Children) != 3 {
				t.Errorf("settings children = %d; want 3", len(item.Children))
			}
		}
	})

	t.Run("attendance feature flag off hides the entry", func(t *testing.T) {
		app := setup(t, "enterprise")
		admin := createUser(t, "Admin", "admin1", "admin@test.cd", "", access.RoleAdmin, true)

		req, rec := newAuthRequest(http.MethodGet, "/v1/nav", getToken(t, admin, access.TierEnterprise))
		app.ServeHTTP(rec, req)

		for _, path := range navPaths(decodeNav(t, rec.Body.Bytes())) {
			if path == "/attendance" {
				t.Error("/attendance visible with the feature disabled")
			}
		}
	})

	t.Run("core plan trims tier-gated entries", func(t *testing.T) {
		app := setup(t, "core", "attendance")
		admin := createUser(t, "Admin", "admin1", "admin@test.cd", "", access.RoleAdmin, true)

		req, rec := newAuthRequest(http.MethodGet, "/v1/nav", getToken(t, admin, access.TierCore))
		app.ServeHTTP(rec, req)

		page := decodeNav(t, rec.Body.Bytes())
		for _, path := range navPaths(page) {
			switch path {
			case "/attendance", "/reports", "/admissions":
				t.Errorf("%s visible on the core plan", path)
			}
		}
		for _, item := range page.Data {
			if item.Path != "/settings" {
				continue
			}
			for _, child := range item.Children {
				if child.Path == "/settings/sso" {
					t.Error("/settings/sso visible on the core plan")
				}
			}
		}
	})

	t.Run("student menu", func(t *testing.T) {
		app := setup(t, "enterprise", "attendance")
		stu := createUser(t, "Student", "student1", "s1@test.cd", "", access.RoleStudent, true)

		req, rec := newAuthRequest(http.MethodGet, "/v1/nav", getToken(t, stu, access.TierEnterprise))
		app.ServeHTTP(rec, req)

		want := []string{"/dashboard", "/courses", "/attendance", "/profile"}
		got := navPaths(decodeNav(t, rec.Body.Bytes()))
		if len(got) != len(want) {
			t.Fatalf("paths = %v; want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("paths = %v; want %v", got, want)
			}
		}
	})

	t.Run("auth required", func(t *testing.T) {
		app := setup(t, "enterprise")

		req, rec := newRequest(http.MethodGet, "/v1/nav")
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("code = %v; want %v", rec.Code, http.StatusUnauthorized)
		}
	})
}

func Test_navApi_session(t *testing.T) {
	app := setup(t, "growth")
	instr := createUser(t, "Instructor", "instr1", "i1@test.cd", "", access.RoleInstructor, true)

	req, rec := newAuthRequest(http.MethodGet, "/v1/session", getToken(t, instr, access.TierGrowth))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; want %v", rec.Code, http.StatusOK)
	}

	var sess struct {
		UserID       string              `json:"user_id"`
		Role         string              `json:"role"`
		Tier         string              `json:"tier"`
		Capabilities []access.Capability `json:"capabilities"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &sess); err != nil {
		t.Fatalf("decoding session response: %v", err)
	}

	if sess.UserID != instr.ID {
		t.Errorf("user_id = %q; want %q", sess.UserID, instr.ID)
	}
	if sess.Role != string(access.RoleInstructor) {
		t.Errorf("role = %q; want %q", sess.Role, access.RoleInstructor)
	}
	if sess.Tier != string(access.TierGrowth) {
		t.Errorf("tier = %q; want %q", sess.Tier, access.TierGrowth)
	}

	caps := make(map[access.Capability]struct{}, len(sess.Capabilities))
	for _, c := range sess.Capabilities {
		caps[c] = struct{}{}
	}
	for _, c := range []access.Capability{access.CapCoursesManage, access.CapAttendanceView, access.CapReportsView} {
		if _, ok := caps[c]; !ok {
			t.Errorf("capability %s missing", c)
		}
	}
	if _, ok := caps[access.CapUsersManage]; ok {
		t.Error("instructor granted users.manage")
	}
}
