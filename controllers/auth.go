package controllers

import (
	"net/http"

	"github.com/MiniduTH/vitalink-sub001/config/authorization"
	"github.com/MiniduTH/vitalink-sub001/models"
	"github.com/MiniduTH/vitalink-sub001/services"
	"github.com/MiniduTH/vitalink-sub001/util"

	"github.com/gin-gonic/gin"
)

const loginPage = `<!DOCTYPE html>
<html>
<head><title>Vitalink - Sign in</title></head>
<body>
<h1>Sign in</h1>
<form id="login">
<label>Email <input name="email" type="email" required></label>
<label>Password <input name="password" type="password" required></label>
<button type="submit">Sign in</button>
</form>
<script>
document.getElementById("login").addEventListener("submit", async function (e) {
  e.preventDefault();
  const form = new FormData(e.target);
  const res = await fetch("/auth/login", {
    method: "POST",
    headers: {"Content-Type": "application/json"},
    body: JSON.stringify({email: form.get("email"), password: form.get("password")})
  });
  if (res.ok) { window.location = "/"; } else { alert("Invalid email or password"); }
});
</script>
</body>
</html>`

type AuthController struct {
	auth     *services.AuthService
	sessions *authorization.Manager
}

func NewAuthController(auth *services.AuthService, sessions *authorization.Manager) *AuthController {
	return &AuthController{auth: auth, sessions: sessions}
}

func (ctl *AuthController) Register(router gin.IRouter) {
	router.GET(authorization.LoginPath, ctl.LoginPage)
	router.POST("/auth/login", ctl.Login)
	router.POST("/auth/logout", ctl.Logout)
}

func (ctl *AuthController) LoginPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(loginPage))
}

/*
* Bind the credentials and pass to the service
* Bad credentials are 401
* On success set the session cookie and return the token as well
 */
func (ctl *AuthController) Login(c *gin.Context) {
	var body models.Login
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c)
		return
	}
	session, err := ctl.auth.Login(c.Request.Context(), body)
	if util.IsKind(err, util.KindValidation) {
		c.JSON(http.StatusUnauthorized, util.FailedResponse(err))
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	ctl.sessions.SetCookie(c, session.Token)
	c.JSON(http.StatusOK, util.SuccessResponse(session))
}

func (ctl *AuthController) Logout(c *gin.Context) {
	ctl.sessions.ClearCookie(c)
	c.JSON(http.StatusOK, util.SuccessResponse(gin.H{"message": "logged out"}))
}
