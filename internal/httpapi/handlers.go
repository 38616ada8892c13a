package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/hammamikhairi/fatfit/internal/auth"
	"github.com/hammamikhairi/fatfit/internal/domain"
	"github.com/hammamikhairi/fatfit/internal/tracker"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Backend operational"))
}

func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(s.quiz)
}

// ── accounts ─────────────────────────────────────────────────────

func (s *Server) handleCheckUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err, upstreamSearch)
		return
	}
	exists, err := s.svc.CheckUser(r.Context(), req.Username, req.Email)
	if err != nil {
		s.fail(w, r, err, upstreamSearch)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req tracker.Registration
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err, upstreamSearch)
		return
	}
	if _, err := s.svc.Register(r.Context(), req); err != nil {
		s.fail(w, r, err, upstreamSearch)
		return
	}
	writeJSON(w, http.StatusCreated, messageBody{Success: true, Message: "User registered successfully!"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err, upstreamSearch)
		return
	}
	token, _, err := s.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.fail(w, r, err, upstreamSearch)
		return
	}

	cookie := &http.Cookie{Name: auth.CookieName, Value: token, Path: "/", HttpOnly: true}
	if s.secureCookies {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, cookie)

	writeJSON(w, http.StatusOK, struct {
		messageBody
		Token string `json:"token"`
	}{messageBody{Success: true, Message: "Login successful!"}, token})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		NewPassword string `json:"newPassword"`
	}
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err, upstreamSearch)
		return
	}
	if err := s.svc.ResetPassword(r.Context(), req.Email, req.NewPassword); err != nil {
		s.fail(w, r, err, upstreamSearch)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Success: true, Message: "Password reset successfully."})
}

func (s *Server) handleRenameUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewUsername string `json:"newUsername"`
	}
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err, upstreamSearch)
		return
	}
	if err := s.svc.RenameUser(r.Context(), mux.Vars(r)["username"], req.NewUsername); err != nil {
		s.fail(w, r, err, upstreamSearch)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Success: true, Message: "Username updated successfully."})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteUser(r.Context(), mux.Vars(r)["username"]); err != nil {
		s.fail(w, r, err, upstreamSearch)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Success: true, Message: "User deleted successfully."})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	d, err := s.svc.Dashboard(r.Context(), username)
	if err != nil {
		s.fail(w, r, err, upstreamSearch)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		*tracker.Dashboard
		Message string `json:"message"`
	}{d, fmt.Sprintf("Welcome to your personalized FatFit page, %s!", username)})
}

func (s *Server) handleSaveAnswers(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string         `json:"username"`
		Answers  domain.Answers `json:"answers"`
	}
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err, upstreamSearch)
		return
	}
	if err := s.svc.SaveAnswers(r.Context(), req.Username, req.Answers); err != nil {
		s.fail(w, r, err, upstreamSearch)
		return
	}
	writeJSON(w, http.StatusCreated, messageBody{Success: true, Message: "Answers saved successfully!"})
}

// ── search ───────────────────────────────────────────────────────

func (s *Server) handleFoodSearch(w http.ResponseWriter, r *http.Request) {
	foods, err := s.svc.SearchFoods(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.fail(w, r, err, upstreamSearch)
		return
	}
	writeJSON(w, http.StatusOK, foods)
}

func (s *Server) handleRecipeSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := recipeQuery(q.Get("max_results"), q.Get("page_number"), q.Get("must_have_images"))
	opts.RecipeTypes = q.Get("recipe_types")
	if v := q.Get("recipe_types_matchall"); v != "" {
		all := v == "true"
		opts.RecipeTypesMatchAll = &all
	}

	recipes, err := s.svc.SearchRecipes(r.Context(), q.Get("q"), opts)
	if err != nil {
		s.fail(w, r, err, upstreamSearch)
		return
	}
	writeJSON(w, http.StatusOK, recipes)
}

// handleRecipeSearchWrapped is the older route that nests results under
// a "recipes" key.
func (s *Server) handleRecipeSearchWrapped(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := recipeQuery(q.Get("max_results"), q.Get("page_number"), q.Get("must_have_images"))

	recipes, err := s.svc.SearchRecipes(r.Context(), q.Get("q"), opts)
	if err != nil {
		s.fail(w, r, err, upstreamSearch)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"recipes": recipes})
}

// recipeQuery parses paging parameters. Unparseable numbers fall back to
// the provider defaults.
func recipeQuery(maxResults, page, images string) domain.RecipeQuery {
	opts := domain.RecipeQuery{MustHaveImages: images == "true"}
	if n, err := strconv.Atoi(maxResults); err == nil {
		opts.MaxResults = n
	}
	if n, err := strconv.Atoi(page); err == nil {
		opts.PageNumber = n
	}
	return opts
}

// ── plans ────────────────────────────────────────────────────────

func (s *Server) handleMealPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.svc.MealPlan(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		s.fail(w, r, err, upstreamAI)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(plan)
}

func (s *Server) handleWorkoutPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.svc.WorkoutPlan(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		s.fail(w, r, err, upstreamAI)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(plan)
}

// ── diary ────────────────────────────────────────────────────────

type addFoodsRequest struct {
	Foods    []tracker.FoodEntry `json:"foods"`
	MealType string              `json:"mealType"`
}

func (s *Server) handleAddFoods(w http.ResponseWriter, r *http.Request) {
	s.addFoods(w, r, s.svc.AddFoods, "food(s)")
}

func (s *Server) handleAddRecipeFoods(w http.ResponseWriter, r *http.Request) {
	s.addFoods(w, r, s.svc.AddRecipeFoods, "recipe(s)")
}

type addFunc func(ctx context.Context, username, meal string, foods []tracker.FoodEntry) (int, error)

func (s *Server) addFoods(w http.ResponseWriter, r *http.Request, add addFunc, noun string) {
	var req addFoodsRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err, upstreamSearch)
		return
	}
	username := mux.Vars(r)["username"]
	n, err := add(r.Context(), username, req.MealType, req.Foods)
	if err != nil {
		s.fail(w, r, err, upstreamSearch)
		return
	}
	writeJSON(w, http.StatusCreated, messageBody{
		Success: true,
		Message: fmt.Sprintf("Added %d %s to %s for %s.", n, noun, req.MealType, username),
	})
}

func (s *Server) handleMealFoods(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	foods, err := s.svc.MealFoods(r.Context(), vars["username"], vars["meal"])
	if err != nil {
		s.fail(w, r, err, upstreamSearch)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"foods": foods})
}

func (s *Server) handleDeleteFood(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FoodName string `json:"foodName"`
	}
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err, upstreamSearch)
		return
	}
	vars := mux.Vars(r)
	if err := s.svc.DeleteFood(r.Context(), vars["username"], vars["mealType"], req.FoodName); err != nil {
		s.fail(w, r, err, upstreamSearch)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{
		Success: true,
		Message: fmt.Sprintf("Food item '%s' was deleted from %s for %s.", req.FoodName, vars["mealType"], vars["username"]),
	})
}

type totalBody struct {
	Username      string  `json:"username"`
	TotalCalories float64 `json:"totalCalories"`
}

func (s *Server) handleGetTotal(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	total, err := s.svc.Total(r.Context(), username)
	if err != nil {
		s.fail(w, r, err, upstreamSearch)
		return
	}
	writeJSON(w, http.StatusOK, totalBody{Username: username, TotalCalories: total})
}

func (s *Server) handleSetTotal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TotalCalories *float64 `json:"totalCalories"`
	}
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err, upstreamSearch)
		return
	}
	if req.TotalCalories == nil {
		s.fail(w, r, fmt.Errorf("%w: totalCalories (number) required", domain.ErrInvalidInput), upstreamSearch)
		return
	}
	username := mux.Vars(r)["username"]
	if err := s.svc.SetTotal(r.Context(), username, *req.TotalCalories); err != nil {
		s.fail(w, r, err, upstreamSearch)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		totalBody
	}{true, totalBody{Username: username, TotalCalories: *req.TotalCalories}})
}
