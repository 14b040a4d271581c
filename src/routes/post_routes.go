package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Linkup/src/controllers"
)

func PostRoutes(api fiber.Router, ctl *controllers.PostController, protect fiber.Handler) {
	post := api.Group("/posts", protect)
	post.Get("/", ctl.GetFeedPosts)
	post.Post("/create", ctl.CreatePost)
	post.Delete("/delete/:id", ctl.DeletePost)
	post.Get("/:id", ctl.GetPostById)
	post.Post("/:id/comment", ctl.CreateComment)
	post.Post("/:id/like", ctl.LikePost)
}
