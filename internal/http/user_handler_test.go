package http

import (
	"net/http"
	"strings"
	"testing"

	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
)

func TestUserCRUD(t *testing.T) {
	env := newTestEnv(t, false)

	apitest.New().
		Handler(env.router).
		Post("/api/users").
		JSON(`{"name":"Bob","email":"bob@x.io","password":"secret1","role":"Administrator"}`).
		Expect(t).
		Status(http.StatusCreated).
		Assert(jsonpath.Equal(`$.id`, float64(1))).
		Assert(jsonpath.Equal(`$.role`, "User")).
		Assert(jsonpath.NotPresent(`$.passwordHash`)).
		End()

	apitest.New().
		Handler(env.router).
		Get("/api/users").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Len(`$`, 1)).
		End()

	apitest.New().
		Handler(env.router).
		Put("/api/users/1").
		JSON(`{"name":"Robert"}`).
		Expect(t).
		Status(http.StatusNoContent).
		End()

	apitest.New().
		Handler(env.router).
		Get("/api/users/1").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.name`, "Robert")).
		Assert(jsonpath.Present(`$.updatedAt`)).
		End()

	apitest.New().
		Handler(env.router).
		Put("/api/users/1").
		JSON(`{"email":"not-an-email"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		End()

	apitest.New().
		Handler(env.router).
		Delete("/api/users/1").
		Expect(t).
		Status(http.StatusNoContent).
		End()

	apitest.New().
		Handler(env.router).
		Get("/api/users/1").
		Expect(t).
		Status(http.StatusNotFound).
		Body(`{"message":"user not found"}`).
		End()
}

func TestUserUpdateEmailTaken(t *testing.T) {
	env := newTestEnv(t, false)
	env.register(t, "Ana", "ana@x.io")
	env.register(t, "Bob", "bob@x.io")

	apitest.New().
		Handler(env.router).
		Put("/api/users/2").
		JSON(`{"email":"ana@x.io"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Body(`{"message":"email already in use"}`).
		End()
}

func TestUserUpdateRejectsPasswordOverBcryptLimit(t *testing.T) {
	env := newTestEnv(t, false)
	env.register(t, "Ana", "ana@x.io")

	apitest.New().
		Handler(env.router).
		Put("/api/users/1").
		JSON(`{"password":"` + strings.Repeat("x", 73) + `"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		End()
}

func TestDeleteUserOwningGames(t *testing.T) {
	env := newTestEnv(t, false)
	admin := env.adminToken(t)

	apitest.New().
		Handler(env.router).
		Post("/api/games").
		Header("Authorization", bearer(admin)).
		JSON(gameJSON).
		Expect(t).
		Status(http.StatusCreated).
		End()

	apitest.New().
		Handler(env.router).
		Delete("/api/users/1").
		Expect(t).
		Status(http.StatusConflict).
		End()
}
