package forms

import (
	"net/url"
	"regexp"
	"unicode/utf8"

	"ya_projects/internal/models"
)

const (
	minPasswordLength = 8

	msgPasswordMismatch = "Введенные пароли не совпадают."
	msgPasswordShort    = "Введённый пароль слишком короткий. Он должен содержать как минимум 8 символов."
	msgPasswordNumeric  = "Введённый пароль состоит только из цифр."
	msgUsernameInvalid  = "Введите правильное имя пользователя. Оно может содержать только буквы, цифры и знаки @/./+/-/_."
	// MsgUsernameTaken is reported by the signup handler on a duplicate username.
	MsgUsernameTaken = "Пользователь с таким именем уже существует."
	// MsgInvalidLogin is the non-field error of a failed login.
	MsgInvalidLogin = "Пожалуйста, введите правильные имя пользователя и пароль. Оба поля могут быть чувствительны к регистру."
)

var (
	usernameRe = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
	numericRe  = regexp.MustCompile(`^[0-9]+$`)
)

type SignupForm struct {
	Username  string
	Password1 string
	Password2 string
	Errors    Errors
}

func NewSignupForm(v url.Values) *SignupForm {
	return &SignupForm{
		Username:  value(v, "username"),
		Password1: v.Get("password1"),
		Password2: v.Get("password2"),
		Errors:    Errors{},
	}
}

func (f *SignupForm) Validate() bool {
	if required(f.Errors, "username", f.Username) &&
		maxLength(f.Errors, "username", f.Username, models.UsernameMaxLength) &&
		!usernameRe.MatchString(f.Username) {
		f.Errors.Add("username", msgUsernameInvalid)
	}

	if required(f.Errors, "password1", f.Password1) {
		if utf8.RuneCountInString(f.Password1) < minPasswordLength {
			f.Errors.Add("password1", msgPasswordShort)
		}
		if numericRe.MatchString(f.Password1) {
			f.Errors.Add("password1", msgPasswordNumeric)
		}
	}
	if required(f.Errors, "password2", f.Password2) && f.Password1 != f.Password2 {
		f.Errors.Add("password2", msgPasswordMismatch)
	}
	return f.Errors.Valid()
}

type LoginForm struct {
	Username string
	Password string
	Next     string
	Errors   Errors
}

func NewLoginForm(v url.Values) *LoginForm {
	return &LoginForm{
		Username: value(v, "username"),
		Password: v.Get("password"),
		Next:     v.Get("next"),
		Errors:   Errors{},
	}
}

func (f *LoginForm) Validate() bool {
	required(f.Errors, "username", f.Username)
	required(f.Errors, "password", f.Password)
	return f.Errors.Valid()
}
