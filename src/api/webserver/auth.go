package webserver

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/campusimpact/govdash/src/api/data"
)

// Auth binds a wallet address to a session. The wallet-connection
// provider confirms the challenge out-of-band through the Confirm
// callback, which flips the stored nonce to CONFIRMED; no signature
// material passes through this service.
type Auth struct {
	rdb            *redis.Client
	jwtSecret      []byte
	callbackSecret []byte
}

func NewAuth(rdb *redis.Client, jwtSecret, callbackSecret []byte) Auth {
	return Auth{rdb: rdb, jwtSecret: jwtSecret, callbackSecret: callbackSecret}
}

func (a Auth) Challenge(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	nonce := uuid.NewString()
	if err := data.SetNonce(c, a.rdb, req.Address, nonce); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"nonce": nonce})
}

// Confirm is the wallet provider's callback. Once the provider has shown
// the challenge to the address holder and they approved it, it posts the
// address here with the shared callback secret, and the next Verify for
// that address succeeds.
func (a Auth) Confirm(c *gin.Context) {
	secret := []byte(c.GetHeader("X-Callback-Secret"))
	if subtle.ConstantTimeCompare(secret, a.callbackSecret) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"err": "bad callback secret"})
		return
	}

	var req struct {
		Address string `json:"address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	if err := data.ConfirmNonce(c, a.rdb, req.Address); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (a Auth) Verify(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	nonce, err := data.GetAndDelNonce(c, a.rdb, req.Address)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"err": "challenge expired"})
		return
	}
	if nonce != "CONFIRMED" {
		c.JSON(http.StatusUnauthorized, gin.H{"err": "challenge not confirmed"})
		return
	}

	token, err := issueJWT(req.Address, a.jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
