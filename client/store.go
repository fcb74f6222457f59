package client

import (
	"sync"

	"github.com/biqiaoran629/developerconnector/internal/model"
)

// ActionType 标识一次状态变更的种类
type ActionType string

const (
	ActionGetPosts       ActionType = "GET_POSTS"
	ActionAddPost        ActionType = "ADD_POST"
	ActionUpdatePost     ActionType = "UPDATE_POST"
	ActionDeletePost     ActionType = "DELETE_POST"
	ActionGetErrors      ActionType = "GET_ERRORS"
	ActionClearErrors    ActionType = "CLEAR_ERRORS"
	ActionSetCurrentUser ActionType = "SET_CURRENT_USER"
	ActionLogout         ActionType = "LOGOUT"
)

// Action 是分发到 Store 的事件
type Action struct {
	Type   ActionType
	Posts  []*model.Post
	Post   *model.Post
	PostID string
	Errors map[string]string
	UserID string
	Name   string
	Avatar string
}

// State 是客户端的共享状态。对外只暴露副本，修改只能通过 Dispatch
type State struct {
	Posts         []*model.Post
	Errors        map[string]string
	Authenticated bool
	UserID        string
	Name          string
	Avatar        string
}

// reduce 是纯函数：输入旧状态和动作，返回新状态，不修改入参
func reduce(state State, action Action) State {
	next := state
	switch action.Type {
	case ActionGetPosts:
		next.Posts = append([]*model.Post{}, action.Posts...)
		next.Errors = nil
	case ActionAddPost:
		next.Posts = append([]*model.Post{action.Post}, state.Posts...)
		next.Errors = nil
	case ActionUpdatePost:
		posts := make([]*model.Post, len(state.Posts))
		copy(posts, state.Posts)
		for i, p := range posts {
			if p.ID == action.Post.ID {
				posts[i] = action.Post
			}
		}
		next.Posts = posts
		next.Errors = nil
	case ActionDeletePost:
		posts := make([]*model.Post, 0, len(state.Posts))
		for _, p := range state.Posts {
			if p.ID.Hex() != action.PostID {
				posts = append(posts, p)
			}
		}
		next.Posts = posts
		next.Errors = nil
	case ActionGetErrors:
		next.Errors = action.Errors
	case ActionClearErrors:
		next.Errors = nil
	case ActionSetCurrentUser:
		next.Authenticated = action.UserID != ""
		next.UserID = action.UserID
		next.Name = action.Name
		next.Avatar = action.Avatar
	case ActionLogout:
		// 登出时整体重置
		next = State{}
	}
	return next
}

// Store 是单一的客户端状态容器，通过订阅机制通知状态变化
type Store struct {
	mu     sync.RWMutex
	state  State
	nextID int
	subs   map[int]func(State)
}

// NewStore 创建一个新的 Store 实例
func NewStore() *Store {
	return &Store{subs: make(map[int]func(State))}
}

// State 返回当前状态的副本
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch 应用一个动作并通知所有订阅者
func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	s.state = reduce(s.state, action)
	state := s.state
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}

// Subscribe 注册状态变化回调，返回取消订阅的函数
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
