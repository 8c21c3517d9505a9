package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) handleListBuckets(c *gin.Context) {
	list, err := s.services.Questions.ListBuckets(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	out := make([]bucketResponse, 0, len(list))
	for i := range list {
		out = append(out, newBucketResponse(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (s *HTTPServer) handleCreateBucket(c *gin.Context) {
	var req createBucketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	b, err := s.services.Questions.CreateBucket(c.Request.Context(), identity(c), req.Title)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newBucketResponse(b))
}

func (s *HTTPServer) handleGetBucket(c *gin.Context) {
	b, err := s.services.Questions.GetBucket(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBucketResponse(b))
}

// handleListQuestions lists a bucket's questions; ?floor=true keeps only those on the floor.
func (s *HTTPServer) handleListQuestions(c *gin.Context) {
	onFloor := false
	if v := c.Query("floor"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			badRequest(c, err)
			return
		}
		onFloor = b
	}

	list, err := s.services.Questions.ListQuestions(c.Request.Context(), c.Param("id"), onFloor)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	out := make([]questionResponse, 0, len(list))
	for i := range list {
		out = append(out, newQuestionResponse(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (s *HTTPServer) handleAsk(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	q, err := s.services.Questions.Ask(c.Request.Context(), identity(c), req.BucketID, req.Text, req.Anonymous)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newQuestionResponse(q))
}

func (s *HTTPServer) handlePutOnFloor(c *gin.Context) {
	q, err := s.services.Questions.PutOnFloor(c.Request.Context(), identity(c), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newQuestionResponse(q))
}

func (s *HTTPServer) handleTakeOffFloor(c *gin.Context) {
	q, err := s.services.Questions.TakeOffFloor(c.Request.Context(), identity(c), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newQuestionResponse(q))
}

func (s *HTTPServer) handleDeleteQuestion(c *gin.Context) {
	if err := s.services.Questions.DeleteQuestion(c.Request.Context(), identity(c), c.Param("id")); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) handleAnswer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	a, err := s.services.Questions.Answer(c.Request.Context(), identity(c), req.QuestionID, req.Text)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newAnswerResponse(a))
}
