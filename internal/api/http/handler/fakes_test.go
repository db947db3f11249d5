package handler

import (
	"context"

	"github.com/dtroode/beatgate/internal/model"
	"github.com/dtroode/beatgate/internal/pattern"
	"github.com/dtroode/beatgate/internal/service"
)

type fakeAuthService struct {
	signUpSession service.Session
	signUpErr     error
	signUpParams  service.SignUpParams

	loginSession  service.Session
	loginErr      error
	loginUsername string
	loginPattern  pattern.Pattern

	changeErr error
	changeOld pattern.Pattern
	changeNew pattern.Pattern

	updateSession  service.Session
	updateErr      error
	updateUsername string
	updateEmail    string

	user    model.User
	userErr error
}

func (f *fakeAuthService) SignUp(_ context.Context, params service.SignUpParams) (service.Session, error) {
	f.signUpParams = params
	if f.signUpErr != nil {
		return service.Session{}, f.signUpErr
	}
	return f.signUpSession, nil
}

func (f *fakeAuthService) Login(_ context.Context, username string, p pattern.Pattern) (service.Session, error) {
	f.loginUsername = username
	f.loginPattern = p
	if f.loginErr != nil {
		return service.Session{}, f.loginErr
	}
	return f.loginSession, nil
}

func (f *fakeAuthService) ChangePattern(_ context.Context, _ int64, oldPattern, newPattern pattern.Pattern) error {
	f.changeOld = oldPattern
	f.changeNew = newPattern
	return f.changeErr
}

func (f *fakeAuthService) UpdateProfile(_ context.Context, _ int64, username, email string) (service.Session, error) {
	f.updateUsername = username
	f.updateEmail = email
	if f.updateErr != nil {
		return service.Session{}, f.updateErr
	}
	return f.updateSession, nil
}

func (f *fakeAuthService) GetUser(_ context.Context, _ int64) (model.User, error) {
	if f.userErr != nil {
		return model.User{}, f.userErr
	}
	return f.user, nil
}
