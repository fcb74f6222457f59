package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/biqiaoran629/developerconnector/internal/model"
)

// TestStoreDispatch 测试动作分发与状态更新
func TestStoreDispatch(t *testing.T) {
	store := NewStore()

	post := &model.Post{ID: primitive.NewObjectID(), Text: "hello"}
	store.Dispatch(Action{Type: ActionGetPosts, Posts: []*model.Post{post}})
	assert.Len(t, store.State().Posts, 1)

	// 新帖子插入到头部
	newer := &model.Post{ID: primitive.NewObjectID(), Text: "newer"}
	store.Dispatch(Action{Type: ActionAddPost, Post: newer})
	state := store.State()
	assert.Len(t, state.Posts, 2)
	assert.Equal(t, "newer", state.Posts[0].Text)

	// 更新帖子按ID替换
	updated := &model.Post{ID: post.ID, Text: "hello", Likes: []model.Like{{User: primitive.NewObjectID()}}}
	store.Dispatch(Action{Type: ActionUpdatePost, Post: updated})
	assert.Len(t, store.State().Posts[1].Likes, 1)

	// 删除帖子
	store.Dispatch(Action{Type: ActionDeletePost, PostID: post.ID.Hex()})
	assert.Len(t, store.State().Posts, 1)
}

// TestStoreErrors 测试错误负载写入和清除
func TestStoreErrors(t *testing.T) {
	store := NewStore()

	store.Dispatch(Action{Type: ActionGetErrors, Errors: map[string]string{"alreadyliked": "User already liked this post"}})
	assert.Equal(t, "User already liked this post", store.State().Errors["alreadyliked"])

	// 成功的动作清除错误状态
	store.Dispatch(Action{Type: ActionGetPosts, Posts: nil})
	assert.Nil(t, store.State().Errors)
}

// TestStoreSubscribe 测试订阅通知与取消订阅
func TestStoreSubscribe(t *testing.T) {
	store := NewStore()

	var notified int
	unsubscribe := store.Subscribe(func(State) { notified++ })

	store.Dispatch(Action{Type: ActionClearErrors})
	assert.Equal(t, 1, notified)

	unsubscribe()
	store.Dispatch(Action{Type: ActionClearErrors})
	assert.Equal(t, 1, notified)
}

// TestStoreLogoutReset 测试登出时状态整体重置
func TestStoreLogoutReset(t *testing.T) {
	store := NewStore()

	store.Dispatch(Action{Type: ActionSetCurrentUser, UserID: "u1", Name: "Alice"})
	store.Dispatch(Action{Type: ActionGetPosts, Posts: []*model.Post{{ID: primitive.NewObjectID()}}})
	assert.True(t, store.State().Authenticated)

	store.Dispatch(Action{Type: ActionLogout})
	state := store.State()
	assert.False(t, state.Authenticated)
	assert.Empty(t, state.Posts)
	assert.Empty(t, state.UserID)
}

// TestReducePure 测试 reduce 不修改输入状态
func TestReducePure(t *testing.T) {
	post := &model.Post{ID: primitive.NewObjectID(), Text: "hello"}
	original := State{Posts: []*model.Post{post}}

	next := reduce(original, Action{Type: ActionDeletePost, PostID: post.ID.Hex()})
	assert.Empty(t, next.Posts)
	assert.Len(t, original.Posts, 1)
}
