package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/biqiaoran629/developerconnector/internal/model"
)

// TestFetchPosts 测试拉取帖子并写入共享状态
func TestFetchPosts(t *testing.T) {
	posts := []*model.Post{
		{ID: primitive.NewObjectID(), Text: "hello", Likes: []model.Like{}, Comments: []model.Comment{}},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/api/posts", r.URL.Path)
		json.NewEncoder(w).Encode(posts)
	}))
	defer server.Close()

	store := NewStore()
	c := New(server.URL, store)

	err := c.FetchPosts(context.Background())
	assert.NoError(t, err)
	assert.Len(t, store.State().Posts, 1)
	assert.Equal(t, "hello", store.State().Posts[0].Text)
}

// TestLikePostUpdatesStore 测试点赞成功后帖子在状态中被替换
func TestLikePostUpdatesStore(t *testing.T) {
	postID := primitive.NewObjectID()
	liker := primitive.NewObjectID()
	original := &model.Post{ID: postID, Text: "hello", Likes: []model.Like{}}
	liked := &model.Post{ID: postID, Text: "hello", Likes: []model.Like{{User: liker}}}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/posts/"+postID.Hex()+"/like", r.URL.Path)
		// 令牌原样透传
		assert.Equal(t, "Bearer some-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(liked)
	}))
	defer server.Close()

	store := NewStore()
	store.Dispatch(Action{Type: ActionGetPosts, Posts: []*model.Post{original}})

	c := New(server.URL, store)
	c.SetToken("Bearer some-token")

	err := c.LikePost(context.Background(), postID.Hex())
	assert.NoError(t, err)
	assert.Len(t, store.State().Posts[0].Likes, 1)
}

// TestErrorPayloadSurfaced 测试失败时服务端的错误负载原样进入错误状态
func TestErrorPayloadSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"alreadyliked": "User already liked this post"})
	}))
	defer server.Close()

	store := NewStore()
	c := New(server.URL, store)

	err := c.LikePost(context.Background(), primitive.NewObjectID().Hex())
	assert.Error(t, err)

	var reqErr *RequestError
	assert.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusBadRequest, reqErr.StatusCode)
	assert.Equal(t, "User already liked this post", store.State().Errors["alreadyliked"])
}

// TestDeletePostRemovesFromStore 测试删除帖子后状态同步移除
func TestDeletePostRemovesFromStore(t *testing.T) {
	postID := primitive.NewObjectID()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "DELETE", r.Method)
		json.NewEncoder(w).Encode(map[string]bool{"success": true})
	}))
	defer server.Close()

	store := NewStore()
	store.Dispatch(Action{Type: ActionGetPosts, Posts: []*model.Post{{ID: postID, Text: "hello"}}})

	c := New(server.URL, store)
	err := c.DeletePost(context.Background(), postID.Hex())
	assert.NoError(t, err)
	assert.Empty(t, store.State().Posts)
}

// TestLoginSetsCurrentUser 测试登录后令牌中的身份写入状态
func TestLoginSetsCurrentUser(t *testing.T) {
	// 客户端不校验签名，签名密钥随意
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":     primitive.NewObjectID().Hex(),
		"name":   "Alice",
		"avatar": "/a.png",
	}).SignedString([]byte("irrelevant"))
	assert.NoError(t, err)
	token := "Bearer " + signed

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "token": token})
	}))
	defer server.Close()

	store := NewStore()
	c := New(server.URL, store)

	err = c.Login(context.Background(), "test@example.com", "password123")
	assert.NoError(t, err)

	state := store.State()
	assert.True(t, state.Authenticated)
	assert.Equal(t, "Alice", state.Name)

	// 登出后状态重置
	c.Logout(context.Background())
	assert.False(t, store.State().Authenticated)
}
