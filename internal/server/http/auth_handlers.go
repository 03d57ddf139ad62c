package http

import (
	"net/http"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/auth"
	"github.com/dmitrijs2005/notekeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) status(c *gin.Context) {
	c.JSON(http.StatusOK, statusResponse{Status: "ok", Time: s.now().UTC()})
}

func (s *HTTPServer) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, common.ErrorValidation, msgMissingFields, msgServerError)
		return
	}

	sess, err := s.users.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.writeError(c, err, msgMissingFields, msgServerError)
		return
	}

	s.startSession(c, sess)
	c.JSON(http.StatusCreated, sessionResponse{Message: "User created", User: toUserResponse(sess.User)})
}

func (s *HTTPServer) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, common.ErrorInvalidCredentials, msgInvalidCredentials, msgServerError)
		return
	}

	sess, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(c, err, msgInvalidCredentials, msgServerError)
		return
	}

	s.startSession(c, sess)
	c.JSON(http.StatusOK, sessionResponse{Message: "Logged in", User: toUserResponse(sess.User)})
}

// logout only clears the cookie; a copied token stays valid until it expires.
func (s *HTTPServer) logout(c *gin.Context) {
	http.SetCookie(c.Writer, auth.ClearCookie(s.opts.CookieName, s.secureRequest(c)))
	c.JSON(http.StatusOK, messageBody("Logged out"))
}

func (s *HTTPServer) me(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		s.writeError(c, common.ErrorUnauthorized, msgUnauthorized, msgServerError)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(s.users.Whoami(id)))
}

func (s *HTTPServer) startSession(c *gin.Context, sess *services.Session) {
	http.SetCookie(c.Writer, s.sessions.Cookie(s.opts.CookieName, sess.Token, s.secureRequest(c)))
}
