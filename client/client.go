package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/biqiaoran629/developerconnector/internal/model"
)

// RequestError 携带服务端返回的字段化错误负载
type RequestError struct {
	StatusCode int
	Fields     map[string]string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("请求失败，状态码 %d: %v", e.StatusCode, e.Fields)
}

// Client 负责发起帖子相关的HTTP请求，并把结果分发到共享状态。
// 失败是终态：错误负载原样写入错误状态，不做任何重试
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      *Store

	mu    sync.RWMutex
	token string
}

// New 创建一个新的 Client 实例
func New(baseURL string, store *Store) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		store:      store,
	}
}

// SetToken 设置后续请求使用的访问令牌
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// do 发起请求。4xx/5xx 时解析字段化错误负载，分发到错误状态并返回 RequestError
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.store.Dispatch(Action{Type: ActionGetErrors, Errors: map[string]string{"network": err.Error()}})
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		fields := make(map[string]string)
		if decodeErr := json.NewDecoder(resp.Body).Decode(&fields); decodeErr != nil {
			fields = map[string]string{"error": resp.Status}
		}
		c.store.Dispatch(Action{Type: ActionGetErrors, Errors: fields})
		return &RequestError{StatusCode: resp.StatusCode, Fields: fields}
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// FetchPosts 拉取全部帖子
func (c *Client) FetchPosts(ctx context.Context) error {
	var posts []*model.Post
	if err := c.do(ctx, http.MethodGet, "/api/posts", nil, &posts); err != nil {
		return err
	}
	c.store.Dispatch(Action{Type: ActionGetPosts, Posts: posts})
	return nil
}

// CreatePost 创建新帖子
func (c *Client) CreatePost(ctx context.Context, text string) error {
	var post model.Post
	if err := c.do(ctx, http.MethodPost, "/api/posts", map[string]string{"text": text}, &post); err != nil {
		return err
	}
	c.store.Dispatch(Action{Type: ActionAddPost, Post: &post})
	return nil
}

// DeletePost 删除帖子
func (c *Client) DeletePost(ctx context.Context, postID string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/posts/"+postID, nil, nil); err != nil {
		return err
	}
	c.store.Dispatch(Action{Type: ActionDeletePost, PostID: postID})
	return nil
}

// LikePost 点赞
func (c *Client) LikePost(ctx context.Context, postID string) error {
	return c.mutatePost(ctx, http.MethodPost, "/api/posts/"+postID+"/like", nil)
}

// UnlikePost 取消点赞
func (c *Client) UnlikePost(ctx context.Context, postID string) error {
	return c.mutatePost(ctx, http.MethodPost, "/api/posts/"+postID+"/unlike", nil)
}

// AddComment 给帖子添加评论
func (c *Client) AddComment(ctx context.Context, postID, text string) error {
	return c.mutatePost(ctx, http.MethodPost, "/api/posts/"+postID+"/comments", map[string]string{"text": text})
}

// DeleteComment 从帖子中删除评论
func (c *Client) DeleteComment(ctx context.Context, postID, commentID string) error {
	return c.mutatePost(ctx, http.MethodDelete, "/api/posts/"+postID+"/comments/"+commentID, nil)
}

// mutatePost 发起返回完整帖子的修改请求，并把更新后的帖子分发到状态
func (c *Client) mutatePost(ctx context.Context, method, path string, body interface{}) error {
	var post model.Post
	if err := c.do(ctx, method, path, body, &post); err != nil {
		return err
	}
	c.store.Dispatch(Action{Type: ActionUpdatePost, Post: &post})
	return nil
}

// Register 注册新用户
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	return c.do(ctx, http.MethodPost, "/api/users/register",
		map[string]string{"name": name, "email": email, "password": password}, nil)
}

// Login 登录并保存令牌，把令牌中的用户身份写入状态
func (c *Client) Login(ctx context.Context, email, password string) error {
	var result struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/users/login",
		map[string]string{"email": email, "password": password}, &result); err != nil {
		return err
	}

	c.SetToken(result.Token)

	// 不校验签名，只取载荷中的展示身份，与服务端的校验互不影响
	raw := strings.TrimPrefix(result.Token, "Bearer ")
	parser := jwt.Parser{}
	token, _, err := parser.ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return fmt.Errorf("无效的令牌载荷")
	}

	id, _ := claims["id"].(string)
	name, _ := claims["name"].(string)
	avatar, _ := claims["avatar"].(string)
	c.store.Dispatch(Action{Type: ActionSetCurrentUser, UserID: id, Name: name, Avatar: avatar})
	return nil
}

// Logout 清除令牌并重置共享状态
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/users/logout", nil, nil)
	c.SetToken("")
	c.store.Dispatch(Action{Type: ActionLogout})
	return err
}
