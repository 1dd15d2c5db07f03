package main

import (
	"errors"
	"net/http"
	"strconv"
)

func (s *server) getUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.catalog.ListUsers(r.Context())
	if err != nil {
		s.renderError(w, err)
		return
	}

	query := r.URL.Query().Get("q")
	s.renderTemplate(w, http.StatusOK, "users.html", map[string]any{
		"Title": "Users",
		"Users": filterItems(users, query, (*User).matches),
		"Total": len(users),
		"Query": query,
	})
}

func (s *server) getNewUser(w http.ResponseWriter, r *http.Request) {
	s.renderTemplate(w, http.StatusOK, "user.html", map[string]any{
		"Title": "New User",
		"User":  &User{Role: RoleUser},
		"New":   true,
	})
}

func (s *server) postNewUser(w http.ResponseWriter, r *http.Request) {
	s.createOrUpdateUser(w, r, nil)
}

func (s *server) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r)
	if err != nil {
		s.renderError(w, err)
		return
	}

	user, err := s.catalog.GetUser(r.Context(), id)
	if err != nil {
		s.renderError(w, err)
		return
	}

	s.renderTemplate(w, http.StatusOK, "user.html", map[string]any{
		"Title": "Update User",
		"User":  user,
	})
}

func (s *server) postUser(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r)
	if err != nil {
		s.renderError(w, err)
		return
	}

	s.createOrUpdateUser(w, r, &id)
}

func (s *server) createOrUpdateUser(w http.ResponseWriter, r *http.Request, id *uint64) {
	err := r.ParseForm()
	if err != nil {
		s.renderError(w, &ValidationError{Message: err.Error()})
		return
	}

	in := UserInput{
		Username: formString(r, "username"),
		Email:    formString(r, "email"),
		Password: r.Form.Get("password"),
		Role:     formString(r, "role"),
	}

	var user *User
	if id == nil {
		user, err = s.catalog.CreateUser(r.Context(), in)
	} else {
		patch := UserPatch{
			Username: &in.Username,
			Email:    &in.Email,
			Role:     &in.Role,
		}
		// A blank password field keeps the current one.
		if in.Password != "" {
			patch.Password = &in.Password
		}
		user, err = s.catalog.UpdateUser(r.Context(), *id, patch)
	}

	var validation *ValidationError
	if errors.As(err, &validation) {
		title := "New User"
		if id != nil {
			title = "Update User"
		}
		s.renderTemplate(w, http.StatusBadRequest, "user.html", map[string]any{
			"Title": title,
			"User":  &User{Username: in.Username, Email: in.Email, Role: in.Role},
			"New":   id == nil,
			"Error": validation.Error(),
		})
		return
	}
	if err != nil {
		s.renderError(w, err)
		return
	}

	http.Redirect(w, r, "/users#"+strconv.FormatUint(user.ID, 10), http.StatusSeeOther)
}

func (s *server) getDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r)
	if err != nil {
		s.renderError(w, err)
		return
	}

	user, err := s.catalog.GetUser(r.Context(), id)
	if err != nil {
		s.renderError(w, err)
		return
	}

	s.renderTemplate(w, http.StatusOK, "user-delete.html", map[string]any{
		"Title": "Delete User",
		"User":  user,
	})
}

func (s *server) postDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r)
	if err != nil {
		s.renderError(w, err)
		return
	}

	err = s.catalog.DeleteUser(r.Context(), id)
	if err != nil {
		s.renderError(w, err)
		return
	}

	http.Redirect(w, r, "/users", http.StatusSeeOther)
}
