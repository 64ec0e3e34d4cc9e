package user

import (
	"net/http"

	"PMeet/global"
	midsec "PMeet/middleware/security"
	userservice "PMeet/module/user/service"
	"PMeet/service/mgo"
	"PMeet/tools/errs"
	jwtlib "PMeet/tools/security"

	"github.com/gin-gonic/gin"
)

type signupReq struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func jwtOptions() jwtlib.Options {
	conf := global.Config()
	opts := jwtlib.DefaultOptions([]byte(conf.JWTSecret))
	opts.TTL = conf.JWTTTL()
	return opts
}

func HandlerSignup(c *gin.Context) {
	var req signupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errs.ErrBadRequest.WithDetail(err.Error()))
		return
	}

	db := mgo.DB()
	if db == nil {
		c.JSON(http.StatusInternalServerError, errs.ErrInternal.WithDetail("database unavailable"))
		return
	}

	user, err := userservice.Signup(c.Request.Context(), db, userservice.SignupParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errs.ErrUserExists.Is(err) {
			c.JSON(http.StatusBadRequest, errs.ErrUserExists)
			return
		}
		c.JSON(http.StatusInternalServerError, errs.ErrInternal)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    user.Sanitized(),
	})
}

func HandlerLogin(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errs.ErrBadRequest.WithDetail(err.Error()))
		return
	}

	db := mgo.DB()
	if db == nil {
		c.JSON(http.StatusInternalServerError, errs.ErrInternal.WithDetail("database unavailable"))
		return
	}

	token, user, err := userservice.Login(c.Request.Context(), db, jwtOptions(), req.Email, req.Password)
	if err != nil {
		switch {
		case errs.ErrUserNotFound.Is(err):
			c.JSON(http.StatusBadRequest, errs.ErrUserNotFound)
		case errs.ErrPasswordMismatch.Is(err):
			c.JSON(http.StatusBadRequest, errs.ErrPasswordMismatch)
		default:
			c.JSON(http.StatusInternalServerError, errs.ErrInternal)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login Successful",
		"token":   token,
		"user":    user.Sanitized(),
	})
}

// HandlerCheck echoes the identity the auth middleware verified. It is the
// one bearer-protected route; the relay itself never requires a credential.
func HandlerCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"user_id": c.GetString(midsec.CtxUserIDKey),
	})
}
