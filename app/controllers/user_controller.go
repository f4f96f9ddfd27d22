package controllers

import (
	"strconv"

	"github.com/daliaibrahim58/greenmart/app/models"
	"github.com/daliaibrahim58/greenmart/app/services"
	"github.com/daliaibrahim58/greenmart/pkg/ctx"
	"github.com/daliaibrahim58/greenmart/pkg/resource"
)

// userResource shapes account records for the back office: credentials and
// address stay out, audit fields come along. The collection path sees the
// JSON-decoded form of the model, the single path sees the model itself.
type userResource struct{ resource.Base }

func (userResource) ToArray(v interface{}) resource.Map {
	switch u := v.(type) {
	case models.User:
		return resource.Map{
			"id":       u.ID,
			"userName": u.UserName,
			"email":    u.Email,
			"role":     u.Role,
			"phone":    u.Phone,
			"joined":   u.CreatedAt,
		}
	case map[string]interface{}:
		return resource.Map{
			"id":       u["ID"],
			"userName": u["userName"],
			"email":    u["email"],
			"role":     u["role"],
			"phone":    u["phone"],
			"joined":   u["CreatedAt"],
		}
	default:
		return resource.Map{}
	}
}

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

func (uc *UserController) Index(c *ctx.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	users, pagination, err := uc.users.All(identityFrom(c), page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	resource.CollectionOf(userResource{}, users).WithPagination(pagination).Respond(c.W)
}

func (uc *UserController) Show(c *ctx.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	user, err := uc.users.Get(identityFrom(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	resource.New(userResource{}, user).Respond(c.W)
}

type roleInput struct {
	Role string `json:"role" validate:"required"`
}

func (uc *UserController) UpdateRole(c *ctx.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var in roleInput
	if !c.BindJSON(&in) {
		return
	}

	user, err := uc.users.SetRole(identityFrom(c), id, in.Role)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(user)
}

func (uc *UserController) Destroy(c *ctx.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := uc.users.Delete(identityFrom(c), id); err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string]string{"message": "User deleted"})
}
