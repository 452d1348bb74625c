package handler

// postForm is the create/edit form. Author is never read from the request.
type postForm struct {
	Text  string `form:"text"  validate:"notblank"`
	Group string `form:"group" validate:"omitempty,numeric"`
}

type commentForm struct {
	Text string `form:"text" validate:"notblank"`
}

type signupForm struct {
	FirstName string `form:"first_name" validate:"max=150"`
	LastName  string `form:"last_name"  validate:"max=150"`
	Username  string `form:"username"   validate:"required,min=3,max=150,username"`
	Email     string `form:"email"      validate:"omitempty,email,max=254"`
	Password  string `form:"password"   validate:"required,min=8"`
}

type loginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}
