package viewdata_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/auth"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/viewdata"
)

func TestNewBaseVM(t *testing.T) {
	viewdata.Init(viewdata.Site{Version: "2.0.0", GoogleClientID: "cid", SignupURL: "https://signup.example", BaseURL: "https://tgd.example"})
	viewdata.SetNavLoader(func(ctx context.Context) (string, []viewdata.NavLink) {
		return "1.4.0", []viewdata.NavLink{{Label: "Alice", Anchor: "musician-1"}}
	})
	t.Cleanup(func() {
		viewdata.Init(viewdata.Site{})
		viewdata.SetNavLoader(nil)
	})

	anon := viewdata.NewBaseVM(httptest.NewRequest("GET", "/?signed_out=1&notice=rejected", nil), "Home")
	if anon.CanEdit {
		t.Error("anonymous visitor should not edit")
	}
	if anon.SiteName != viewdata.DefaultSiteName {
		t.Errorf("SiteName = %q", anon.SiteName)
	}
	if !anon.LoggedOut || anon.Notice == "" {
		t.Errorf("expected signed-out flag and notice, got %+v", anon)
	}
	if anon.APIVersion != "1.4.0" || len(anon.NavLinks) != 1 {
		t.Errorf("nav loader not applied: %+v", anon)
	}
	if anon.LoginURI != "https://tgd.example/login/google" {
		t.Errorf("LoginURI = %q", anon.LoginURI)
	}

	req := auth.WithSession(httptest.NewRequest("GET", "/", nil), auth.Session{Token: "t", Name: "Jane", Email: "jane@example.com"})
	admin := viewdata.NewBaseVM(req, "Home")
	if !admin.CanEdit || admin.UserName != "Jane" || admin.UserEmail != "jane@example.com" {
		t.Errorf("admin fields not set: %+v", admin)
	}
}
