package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the homepage showing all posts.
	RouteRoot = "/"
	// RoutePost is the single post route pattern.
	RoutePost = "/post/{id}"
	// RouteNewPost is the post authoring route.
	RouteNewPost = "/new-post"
	// RouteEditPost is the post editing route pattern.
	RouteEditPost = "/edit-post/{id}"
	// RouteDeletePost is the post deletion route pattern.
	RouteDeletePost = "/delete/{id}"

	// RouteRegister is the account registration route.
	RouteRegister = "/register"
	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"

	// RouteAbout is the about page route.
	RouteAbout = "/about"
	// RouteContact is the contact page route.
	RouteContact = "/contact"
)
