package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/FinalGun/foodgram/internal/middleware"
	"github.com/FinalGun/foodgram/internal/service"
)

const defaultRecipesLimit = 10

type UserHandler struct {
	userService *service.UserService
	authService *service.AuthService
}

func NewUserHandler(userService *service.UserService, authService *service.AuthService) *UserHandler {
	return &UserHandler{userService: userService, authService: authService}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	users.Use(middleware.OptionalAuth(h.authService))
	{
		users.GET("", h.ListUsers)
		users.GET("/:id", h.GetUser)
	}

	authed := router.Group("/users")
	authed.Use(middleware.AuthMiddleware(h.authService))
	{
		authed.GET("/me", h.Me)
		authed.PUT("/me/avatar", h.SetAvatar)
		authed.DELETE("/me/avatar", h.DeleteAvatar)
		authed.GET("/subscriptions", h.Subscriptions)
		authed.POST("/:id/subscribe", h.Subscribe)
		authed.DELETE("/:id/subscribe", h.Unsubscribe)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	users, err := h.userService.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	viewer := viewerID(c)
	responses := make([]UserResponse, len(users))
	for i := range users {
		subscribed, err := h.userService.IsSubscribed(c.Request.Context(), viewer, users[i].ID)
		if err != nil {
			respondError(c, err)
			return
		}
		responses[i] = newUserResponse(&users[i], subscribed)
	}
	c.JSON(http.StatusOK, gin.H{"users": responses})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	subscribed, err := h.userService.IsSubscribed(c.Request.Context(), viewerID(c), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user, subscribed))
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user, false))
}

func (h *UserHandler) SetAvatar(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req AvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.SetAvatar(c.Request.Context(), userID, req.Avatar)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar": user.Avatar})
}

func (h *UserHandler) DeleteAvatar(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.userService.DeleteAvatar(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipesLimit, err := strconv.Atoi(c.DefaultQuery("recipes_limit", strconv.Itoa(defaultRecipesLimit)))
	if err != nil || recipesLimit < 0 {
		recipesLimit = defaultRecipesLimit
	}

	subscriptions, err := h.userService.Subscriptions(c.Request.Context(), userID, recipesLimit)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]SubscriptionResponse, len(subscriptions))
	for i := range subscriptions {
		responses[i] = newSubscriptionResponse(&subscriptions[i])
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": responses})
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	target, err := h.userService.Follow(c.Request.Context(), userID, targetID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newUserResponse(target, true))
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.userService.Unfollow(c.Request.Context(), userID, targetID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
