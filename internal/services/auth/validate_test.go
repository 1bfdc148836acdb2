package auth

import "testing"

func TestSignupFormValidate(t *testing.T) {
	tests := []struct {
		name    string
		form    SignupForm
		wantErr error
	}{
		{
			name: "валидная форма",
			form: SignupForm{
				Email:           "user@example.com",
				Username:        "woodworker",
				Password:        "secret123",
				ConfirmPassword: "secret123",
			},
			wantErr: nil,
		},
		{
			name: "короткое имя пользователя",
			form: SignupForm{
				Email:           "user@example.com",
				Username:        "ab",
				Password:        "abc12",
				ConfirmPassword: "abc12",
			},
			wantErr: ErrUsernameTooShort,
		},
		{
			name: "короткий пароль",
			form: SignupForm{
				Email:           "user@example.com",
				Username:        "woodworker",
				Password:        "abc12",
				ConfirmPassword: "abc12",
			},
			wantErr: ErrPasswordTooShort,
		},
		{
			name: "пароли не совпадают",
			form: SignupForm{
				Email:           "user@example.com",
				Username:        "woodworker",
				Password:        "secret123",
				ConfirmPassword: "secret124",
			},
			wantErr: ErrPasswordMismatch,
		},
		{
			name:    "пустой email",
			form:    SignupForm{Username: "woodworker", Password: "secret123", ConfirmPassword: "secret123"},
			wantErr: ErrEmailRequired,
		},
		{
			name: "email без домена",
			form: SignupForm{
				Email:           "user@",
				Username:        "woodworker",
				Password:        "secret123",
				ConfirmPassword: "secret123",
			},
			wantErr: ErrEmailInvalid,
		},
		{
			name: "email без точки в домене",
			form: SignupForm{
				Email:           "user@localhost",
				Username:        "woodworker",
				Password:        "secret123",
				ConfirmPassword: "secret123",
			},
			wantErr: ErrEmailInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if err != tt.wantErr {
				t.Errorf("Validate() = %v, ожидалось %v", err, tt.wantErr)
			}
		})
	}
}

// Имя пользователя короче трех символов должно останавливать форму с понятным
// сообщением до каких-либо сетевых вызовов.
func TestSignupFormUsernameMessage(t *testing.T) {
	form := SignupForm{
		Email:           "user@example.com",
		Username:        "ab",
		Password:        "abc12",
		ConfirmPassword: "abc12",
	}

	err := form.Validate()
	if err == nil {
		t.Fatal("ожидалась ошибка валидации")
	}
	if err.Error() != "Username must be at least 3 characters" {
		t.Errorf("сообщение ошибки: %q", err.Error())
	}
}

func TestSignupFormTrimsSpaces(t *testing.T) {
	form := SignupForm{
		Email:           "  user@example.com  ",
		Username:        "  woodworker  ",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	}

	if err := form.Validate(); err != nil {
		t.Errorf("Validate() = %v, пробелы должны обрезаться", err)
	}
	if form.Email != "user@example.com" {
		t.Errorf("email не обрезан: %q", form.Email)
	}
}
