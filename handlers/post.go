package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/Emmanuel1255/tok-backend/database"
	"github.com/Emmanuel1255/tok-backend/middleware"
	"github.com/Emmanuel1255/tok-backend/models"
	"github.com/Emmanuel1255/tok-backend/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// postInput carries the create/update fields from either a JSON body or a
// multipart form. Empty fields were absent from the request.
type postInput struct {
	Title        string
	Content      string
	Excerpt      string
	Status       string
	Category     *models.Category
	Tags         []string
	TagsProvided bool
}

type jsonPostBody struct {
	Title    string          `json:"title"`
	Content  string          `json:"content"`
	Excerpt  string          `json:"excerpt"`
	Status   string          `json:"status"`
	Category json.RawMessage `json:"category"`
	Tags     json.RawMessage `json:"tags"`
}

// parseCategory accepts the category as an object or as a JSON-encoded
// string (the shape multipart clients send).
func parseCategory(raw json.RawMessage) (*models.Category, bool) {
	if len(raw) == 0 {
		return nil, true
	}

	var category models.Category
	if err := json.Unmarshal(raw, &category); err == nil && category.Name != "" {
		return &category, true
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		if err := json.Unmarshal([]byte(encoded), &category); err == nil && category.Name != "" {
			return &category, true
		}
	}
	return nil, false
}

func bindPostInput(c *gin.Context) (*postInput, bool) {
	in := &postInput{}

	if strings.HasPrefix(c.ContentType(), "application/json") {
		var body jsonPostBody
		if err := c.ShouldBindJSON(&body); err != nil {
			return nil, false
		}

		in.Title = strings.TrimSpace(body.Title)
		in.Content = body.Content
		in.Excerpt = strings.TrimSpace(body.Excerpt)
		in.Status = body.Status

		category, ok := parseCategory(body.Category)
		if !ok {
			return nil, false
		}
		in.Category = category

		if len(body.Tags) > 0 {
			in.TagsProvided = true
			var list []string
			if err := json.Unmarshal(body.Tags, &list); err == nil {
				in.Tags = utils.ParseTags(list)
			} else {
				var single string
				if err := json.Unmarshal(body.Tags, &single); err != nil {
					return nil, false
				}
				in.Tags = utils.ParseTags([]string{single})
			}
		}
		return in, true
	}

	in.Title = strings.TrimSpace(c.PostForm("title"))
	in.Content = c.PostForm("content")
	in.Excerpt = strings.TrimSpace(c.PostForm("excerpt"))
	in.Status = c.PostForm("status")

	if raw := c.PostForm("category"); raw != "" {
		category, ok := parseCategory(quoteJSON(raw))
		if !ok {
			return nil, false
		}
		in.Category = category
	}

	values := c.PostFormArray("tags[]")
	if len(values) == 0 {
		values = c.PostFormArray("tags")
	}
	if len(values) > 0 {
		in.TagsProvided = true
		in.Tags = utils.ParseTags(values)
	}
	return in, true
}

// quoteJSON wraps a raw form value as a JSON string so parseCategory can
// treat form and JSON inputs uniformly.
func quoteJSON(raw string) json.RawMessage {
	quoted, _ := json.Marshal(raw)
	return quoted
}

// regexQuote escapes regex metacharacters so search terms match as
// literal substrings.
func regexQuote(s string) string {
	return regexp.QuoteMeta(s)
}

// fetchUsers loads the public author shapes for a set of user ids.
func fetchUsers(ctx context.Context, ids []primitive.ObjectID) map[primitive.ObjectID]models.PublicUser {
	users := make(map[primitive.ObjectID]models.PublicUser)
	if len(ids) == 0 {
		return users
	}

	cursor, err := database.Users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		log.Printf("[fetchUsers] Database error: %v", err)
		return users
	}
	defer cursor.Close(ctx)

	var results []models.User
	if err := cursor.All(ctx, &results); err != nil {
		log.Printf("[fetchUsers] Decode error: %v", err)
		return users
	}

	for i := range results {
		users[results[i].ID] = results[i].Public()
	}
	return users
}

func postUserIDs(posts []models.Post) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool)
	var ids []primitive.ObjectID
	for i := range posts {
		if !seen[posts[i].Author] {
			seen[posts[i].Author] = true
			ids = append(ids, posts[i].Author)
		}
		for j := range posts[i].Comments {
			user := posts[i].Comments[j].User
			if !seen[user] {
				seen[user] = true
				ids = append(ids, user)
			}
		}
	}
	return ids
}

func commentJSON(comment *models.Comment, users map[primitive.ObjectID]models.PublicUser) gin.H {
	entry := gin.H{
		"id":        comment.ID.Hex(),
		"content":   comment.Content,
		"createdAt": comment.CreatedAt,
	}
	if user, ok := users[comment.User]; ok {
		entry["user"] = user
	} else {
		entry["user"] = comment.User.Hex()
	}
	return entry
}

func postJSON(post *models.Post, users map[primitive.ObjectID]models.PublicUser) gin.H {
	comments := make([]gin.H, len(post.Comments))
	for i := range post.Comments {
		comments[i] = commentJSON(&post.Comments[i], users)
	}

	entry := gin.H{
		"id":        post.ID.Hex(),
		"title":     post.Title,
		"slug":      post.Slug,
		"content":   post.Content,
		"excerpt":   post.Excerpt,
		"category":  post.Category,
		"tags":      post.Tags,
		"status":    post.Status,
		"views":     post.Views,
		"likes":     post.Likes,
		"comments":  comments,
		"createdAt": post.CreatedAt,
		"updatedAt": post.UpdatedAt,
	}
	if post.FeaturedImage != "" {
		entry["featuredImage"] = post.FeaturedImage
	}
	if author, ok := users[post.Author]; ok {
		entry["author"] = author
	} else {
		entry["author"] = post.Author.Hex()
	}
	return entry
}

// GetPosts lists posts filtered by category slug, tag membership,
// case-insensitive title/content search and status, newest-first.
func GetPosts(c *gin.Context) {
	page, limit := pagination(c)

	filter := bson.M{}
	if category := c.Query("category"); category != "" {
		filter["category.slug"] = category
	}
	if tag := c.Query("tag"); tag != "" {
		filter["tags"] = tag
	}
	if search := c.Query("search"); search != "" {
		pattern := primitive.Regex{Pattern: regexQuote(search), Options: "i"}
		filter["$or"] = []bson.M{
			{"title": pattern},
			{"content": pattern},
		}
	}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := database.Posts.Find(ctx, filter, findOptions)
	if err != nil {
		log.Printf("[GetPosts] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		log.Printf("[GetPosts] Decode error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	count, err := database.Posts.CountDocuments(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	users := fetchUsers(ctx, postUserIDs(posts))
	data := make([]gin.H, len(posts))
	for i := range posts {
		data[i] = postJSON(&posts[i], users)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"data":        data,
		"count":       count,
		"totalPages":  totalPages(count, limit),
		"currentPage": page,
	})
}

// GetPost fetches a post and atomically increments its view counter. The
// $inc runs server-side so concurrent readers never lose updates.
func GetPost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Post not found"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var post models.Post
	err = database.Posts.FindOneAndUpdate(
		ctx,
		bson.M{"_id": postID},
		bson.M{"$inc": bson.M{"views": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Post not found"})
		return
	}
	if err != nil {
		log.Printf("[GetPost] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	users := fetchUsers(ctx, postUserIDs([]models.Post{post}))
	c.JSON(http.StatusOK, gin.H{"success": true, "data": postJSON(&post, users)})
}

// CreatePost creates a draft or published post. If anything fails after
// an image was stored, the file is removed so no orphans are left behind.
func CreatePost(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		middleware.DeleteFile(middleware.UploadedFile(c))
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid user ID"})
		return
	}

	in, ok := bindPostInput(c)
	if !ok {
		middleware.DeleteFile(middleware.UploadedFile(c))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid category format"})
		return
	}

	if in.Title == "" || in.Content == "" {
		middleware.DeleteFile(middleware.UploadedFile(c))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Title and content are required"})
		return
	}
	if in.Category == nil {
		middleware.DeleteFile(middleware.UploadedFile(c))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Category is required"})
		return
	}

	status := in.Status
	if status == "" {
		status = models.StatusDraft
	}
	excerpt := in.Excerpt
	if excerpt == "" {
		excerpt = utils.MakeExcerpt(in.Content)
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	now := time.Now()
	post := models.Post{
		ID:      primitive.NewObjectID(),
		Title:   in.Title,
		Slug:    utils.Slugify(in.Title),
		Content: in.Content,
		Excerpt: excerpt,
		Category: models.Category{
			Name: in.Category.Name,
			Slug: utils.Slugify(in.Category.Name),
		},
		Tags:          tags,
		Status:        status,
		Author:        userID,
		Likes:         []primitive.ObjectID{},
		Comments:      []models.Comment{},
		Views:         0,
		FeaturedImage: middleware.UploadedFile(c),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.Posts.InsertOne(ctx, post); err != nil {
		middleware.DeleteFile(post.FeaturedImage)
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "A post with this title already exists"})
			return
		}
		log.Printf("[CreatePost] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	trackPostCreated(userID, &post)
	InvalidateUserStats(userID)

	users := fetchUsers(ctx, []primitive.ObjectID{userID})
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    postJSON(&post, users),
		"message": "Post created successfully",
	})
}

// UpdatePost merges only the fields present in the request. Slugs are
// re-derived whenever title or category change.
func UpdatePost(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		middleware.DeleteFile(middleware.UploadedFile(c))
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid user ID"})
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		middleware.DeleteFile(middleware.UploadedFile(c))
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Post not found"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var post models.Post
	err = database.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		middleware.DeleteFile(middleware.UploadedFile(c))
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Post not found"})
		return
	}
	if err != nil {
		middleware.DeleteFile(middleware.UploadedFile(c))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	if !canModify(post.Author, userID, isAdmin(c)) {
		middleware.DeleteFile(middleware.UploadedFile(c))
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized to update this post"})
		return
	}

	in, ok := bindPostInput(c)
	if !ok {
		middleware.DeleteFile(middleware.UploadedFile(c))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid category format"})
		return
	}

	update := bson.M{"updatedAt": time.Now()}
	if in.Title != "" {
		update["title"] = in.Title
		update["slug"] = utils.Slugify(in.Title)
	}
	if in.Content != "" {
		update["content"] = in.Content
	}
	if in.Excerpt != "" {
		update["excerpt"] = in.Excerpt
	}
	if in.Status != "" {
		update["status"] = in.Status
	}
	if in.Category != nil {
		update["category"] = models.Category{
			Name: in.Category.Name,
			Slug: utils.Slugify(in.Category.Name),
		}
	}
	if in.TagsProvided {
		update["tags"] = in.Tags
	}

	newImage := middleware.UploadedFile(c)
	if newImage != "" {
		update["featuredImage"] = newImage
	}

	var updated models.Post
	err = database.Posts.FindOneAndUpdate(
		ctx,
		bson.M{"_id": postID},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		middleware.DeleteFile(newImage)
		log.Printf("[UpdatePost] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	// The replaced image is deleted best-effort once the update is durable
	if newImage != "" && post.FeaturedImage != "" {
		middleware.DeleteFile(post.FeaturedImage)
	}

	trackPostUpdated(userID, &updated)
	InvalidateUserStats(updated.Author)

	users := fetchUsers(ctx, postUserIDs([]models.Post{updated}))
	c.JSON(http.StatusOK, gin.H{"success": true, "data": postJSON(&updated, users)})
}

// DeletePost removes a post, its image file (best-effort) and emits a
// post_deleted activity with the title captured before deletion.
func DeletePost(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid user ID"})
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Post not found"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var post models.Post
	err = database.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	if !canModify(post.Author, userID, isAdmin(c)) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized to delete this post"})
		return
	}

	if _, err := database.Posts.DeleteOne(ctx, bson.M{"_id": postID}); err != nil {
		log.Printf("[DeletePost] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	middleware.DeleteFile(post.FeaturedImage)
	trackPostDeleted(userID, post.Title)
	InvalidateUserStats(post.Author)

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{}})
}

// LikePost toggles the requester's membership in the like set. Liking
// emits like_given (and like_received for the author); unliking emits
// nothing.
func LikePost(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid user ID"})
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Post not found"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var post models.Post
	err = database.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	// $addToSet/$pull keep the like set consistent under concurrent toggles
	var change bson.M
	liked := post.LikedBy(userID)
	if liked {
		change = bson.M{"$pull": bson.M{"likes": userID}}
	} else {
		change = bson.M{"$addToSet": bson.M{"likes": userID}}
	}

	var updated models.Post
	err = database.Posts.FindOneAndUpdate(
		ctx,
		bson.M{"_id": postID},
		change,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		log.Printf("[LikePost] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	if !liked {
		trackLikeGiven(userID, &updated)
	}
	InvalidateUserStats(updated.Author)

	users := fetchUsers(ctx, postUserIDs([]models.Post{updated}))
	c.JSON(http.StatusOK, gin.H{"success": true, "data": postJSON(&updated, users)})
}

type commentInput struct {
	Content string `json:"content"`
}

func validateCommentContent(content string) (string, string) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", "Comment content is required"
	}
	if len([]rune(trimmed)) > models.MaxCommentLength {
		return "", "Comment is too long. Maximum 1000 characters allowed."
	}
	return trimmed, ""
}

// CommentOnPost prepends a comment (newest-first) with its own id.
func CommentOnPost(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid user ID"})
		return
	}

	var in commentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Comment content is required"})
		return
	}

	content, msg := validateCommentContent(in.Content)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": msg})
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Post not found"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var post models.Post
	err = database.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		User:      userID,
		Content:   content,
		CreatedAt: time.Now(),
	}

	// $position 0 keeps the list newest-first
	_, err = database.Posts.UpdateOne(ctx, bson.M{"_id": postID}, bson.M{
		"$push": bson.M{
			"comments": bson.M{
				"$each":     []models.Comment{comment},
				"$position": 0,
			},
		},
	})
	if err != nil {
		log.Printf("[CommentOnPost] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	trackCommentAdded(userID, &post, comment.ID)
	InvalidateUserStats(post.Author)

	users := fetchUsers(ctx, []primitive.ObjectID{userID})
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    commentJSON(&comment, users),
		"message": "Comment added successfully",
	})
}

// EditComment replaces a comment's content in place. Only the comment's
// author may edit, and no activity is emitted.
func EditComment(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid user ID"})
		return
	}

	var in commentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Comment content is required"})
		return
	}

	content, msg := validateCommentContent(in.Content)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": msg})
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Post not found"})
		return
	}
	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Comment not found"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var post models.Post
	err = database.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	comment := post.FindComment(commentID)
	if comment == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Comment not found"})
		return
	}

	if comment.User != userID {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized to edit this comment"})
		return
	}

	result, err := database.Posts.UpdateOne(ctx,
		bson.M{"_id": postID, "comments._id": commentID},
		bson.M{"$set": bson.M{"comments.$.content": content}},
	)
	if err != nil {
		log.Printf("[EditComment] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}
	// The comment may have been deleted between the read and the update
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Comment not found"})
		return
	}

	comment.Content = content
	users := fetchUsers(ctx, []primitive.ObjectID{comment.User})
	c.JSON(http.StatusOK, gin.H{"success": true, "data": commentJSON(comment, users)})
}

// DeleteComment removes a comment by id. Allowed for the comment author,
// the post author, or an admin.
func DeleteComment(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid user ID"})
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Post not found"})
		return
	}
	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Comment not found"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var post models.Post
	err = database.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	comment := post.FindComment(commentID)
	if comment == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Comment not found"})
		return
	}

	if comment.User != userID && !canModify(post.Author, userID, isAdmin(c)) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized to delete this comment"})
		return
	}

	var updated models.Post
	err = database.Posts.FindOneAndUpdate(ctx,
		bson.M{"_id": postID},
		bson.M{"$pull": bson.M{"comments": bson.M{"_id": commentID}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		log.Printf("[DeleteComment] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	InvalidateUserStats(post.Author)

	users := fetchUsers(ctx, postUserIDs([]models.Post{updated}))
	comments := make([]gin.H, len(updated.Comments))
	for i := range updated.Comments {
		comments[i] = commentJSON(&updated.Comments[i], users)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": comments})
}

// GetMyPosts lists the requester's own posts with an optional status
// filter.
func GetMyPosts(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid user ID"})
		return
	}

	page, limit := pagination(c)

	filter := bson.M{"author": userID}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := database.Posts.Find(ctx, filter, findOptions)
	if err != nil {
		log.Printf("[GetMyPosts] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	count, err := database.Posts.CountDocuments(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	users := fetchUsers(ctx, postUserIDs(posts))
	data := make([]gin.H, len(posts))
	for i := range posts {
		data[i] = postJSON(&posts[i], users)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"data":        data,
		"count":       count,
		"totalPages":  totalPages(count, limit),
		"currentPage": page,
	})
}
