package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Linkup/src/lib"
	"github.com/theleywin/Backend-Linkup/src/models"
	"github.com/theleywin/Backend-Linkup/src/services"
)

type PostController struct {
	posts *services.PostService
}

func NewPostController(posts *services.PostService) *PostController {
	return &PostController{posts: posts}
}

// GetFeedPosts returns posts from the caller and their connections
func (ctl *PostController) GetFeedPosts(c *fiber.Ctx) error {
	posts, err := ctl.posts.Feed(c.UserContext(), currentUser(c))
	if err != nil {
		return fail(c, "getFeedPosts", err)
	}
	return c.Status(fiber.StatusOK).JSON(posts)
}

// CreatePost publishes a post with optional image
func (ctl *PostController) CreatePost(c *fiber.Ctx) error {
	var input models.CreatePostDto
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	post, err := ctl.posts.Create(c.UserContext(), currentUser(c), input)
	if err != nil {
		return fail(c, "createPost", err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// DeletePost removes one of the caller's posts
func (ctl *PostController) DeletePost(c *fiber.Ctx) error {
	postID, ok := lib.ParseObjectID(c, "id")
	if !ok {
		return badRequest(c, "Invalid post ID format")
	}

	if err := ctl.posts.Delete(c.UserContext(), postID, currentUser(c)); err != nil {
		return fail(c, "deletePost", err)
	}
	return c.Status(fiber.StatusOK).JSON(lib.MessageResponse(true, "Post deleted successfully"))
}

// GetPostById returns a single post
func (ctl *PostController) GetPostById(c *fiber.Ctx) error {
	postID, ok := lib.ParseObjectID(c, "id")
	if !ok {
		return badRequest(c, "Invalid post ID format")
	}

	post, err := ctl.posts.Get(c.UserContext(), postID)
	if err != nil {
		return fail(c, "getPostById", err)
	}
	return c.Status(fiber.StatusOK).JSON(post)
}

// CreateComment adds a comment to a post
func (ctl *PostController) CreateComment(c *fiber.Ctx) error {
	postID, ok := lib.ParseObjectID(c, "id")
	if !ok {
		return badRequest(c, "Invalid post ID format")
	}
	var input models.CreateCommentDto
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	post, err := ctl.posts.AddComment(c.UserContext(), postID, currentUser(c), input)
	if err != nil {
		return fail(c, "createComment", err)
	}
	return c.Status(fiber.StatusOK).JSON(post)
}

// LikePost toggles the caller's like on a post
func (ctl *PostController) LikePost(c *fiber.Ctx) error {
	postID, ok := lib.ParseObjectID(c, "id")
	if !ok {
		return badRequest(c, "Invalid post ID format")
	}

	post, err := ctl.posts.ToggleLike(c.UserContext(), postID, currentUser(c))
	if err != nil {
		return fail(c, "likePost", err)
	}
	return c.Status(fiber.StatusOK).JSON(post)
}
